// Package validation checks inbound payloads before they reach the runtime.
// Checks are pure: they read the payload and the membership view only.
package validation

import (
	"math"
	"strconv"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/tidwall/gjson"
)

const (
	bodyField      = "body"
	timestampField = "timestamp"
	channelField   = "channel_id"
)

// Membership is the read-only view of the channel membership cache.
type Membership interface {
	HasChannel(channelID domain.ChannelID) bool
	IsMember(channelID domain.ChannelID, token domain.Token) bool
}

// ChatMessage is a chat payload that passed every check.
type ChatMessage struct {
	Body      string
	Timestamp string
	CreatedAt time.Time
	ChannelID domain.ChannelID
}

// ValidateChat runs the chat checks in their fixed order and stops at the
// first failure. The returned *errors.ValidationError text goes back to the
// sender verbatim.
func ValidateChat(payload []byte, sender domain.Token, members Membership) (ChatMessage, error) {
	body := gjson.GetBytes(payload, bodyField)
	if err := requireString(body, bodyField); err != nil {
		return ChatMessage{}, err
	}
	timestamp := gjson.GetBytes(payload, timestampField)
	if err := requireString(timestamp, timestampField); err != nil {
		return ChatMessage{}, err
	}
	channel := gjson.GetBytes(payload, channelField)
	if !channel.Exists() {
		return ChatMessage{}, missing(channelField)
	}
	if channel.Type != gjson.Number {
		return ChatMessage{}, errors.Validation(`Chat message "%s" property is not a number`, channelField)
	}

	createdAt, ok := domain.ParseTimestamp(timestamp.Str)
	if !ok {
		return ChatMessage{}, errors.Validation(`Chat message "%s" is "%s" which is not a valid timestamp`, timestampField, timestamp.Str)
	}

	channelID, ok := toChannelID(channel.Num)
	if !ok || !members.HasChannel(channelID) {
		return ChatMessage{}, errors.Validation(`Chat message "%s" is "%s" which is not a valid channel`, channelField, formatNumber(channel.Num))
	}
	if !members.IsMember(channelID, sender) {
		return ChatMessage{}, errors.Validation(`Chat message user is not a member of the chat with "%s" value "%s"`, channelField, channelID)
	}

	return ChatMessage{
		Body:      body.Str,
		Timestamp: timestamp.Str,
		CreatedAt: createdAt,
		ChannelID: channelID,
	}, nil
}

// ValidateStatus accepts only the statuses a client may set itself.
// Anything else is reported as not ok and must be dropped silently.
func ValidateStatus(payload []byte) (domain.Status, bool) {
	status := gjson.GetBytes(payload, "status")
	if status.Type != gjson.String {
		return "", false
	}
	s := domain.Status(status.Str)
	if !s.IsSelfReported() {
		return "", false
	}
	return s, true
}

func requireString(field gjson.Result, name string) error {
	if !field.Exists() {
		return missing(name)
	}
	if field.Type != gjson.String {
		return errors.Validation(`Chat message "%s" property is not a string`, name)
	}
	return nil
}

func missing(name string) error {
	return errors.Validation(`Chat message missing "%s" property`, name)
}

func toChannelID(n float64) (domain.ChannelID, bool) {
	if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
		return 0, false
	}
	return domain.ChannelID(n), true
}

// formatNumber renders a JSON number the way a JavaScript client prints it.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
