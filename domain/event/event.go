// Package event defines the websocket wire events exchanged with clients.
// Inbound events form a closed set decoded from the {"event","data"}
// envelope; outbound events know their own name.
package event

import (
	"encoding/json"
	"fmt"

	"chat-relay/errors"

	"github.com/tidwall/gjson"
)

type Name string

const (
	ChatName          Name = "chat"
	StatusName        Name = "status"
	ConnectedName     Name = "connected"
	NotificationsName Name = "notifications"
	ErrorName         Name = "error"
	MembershipName    Name = "membership"
	RenameName        Name = "rename"
)

// Inbound is implemented only by the events a client may emit.
type Inbound interface {
	inbound()
	Name() Name
}

// Chat keeps the raw payload: validation inspects field types on the bytes
// and fanout forwards them untouched.
type Chat struct {
	Payload []byte
}

func (Chat) inbound()   {}
func (Chat) Name() Name { return ChatName }

type StatusUpdate struct {
	Payload []byte
}

func (StatusUpdate) inbound()   {}
func (StatusUpdate) Name() Name { return StatusName }

// Decode parses one websocket frame. Unknown event names yield
// ErrInvalidPayload so the caller can drop the frame.
func Decode(frame []byte) (Inbound, error) {
	if !gjson.ValidBytes(frame) {
		return nil, fmt.Errorf("%w: frame is not valid JSON", errors.ErrInvalidPayload)
	}
	envelope := gjson.ParseBytes(frame)
	if !envelope.IsObject() {
		return nil, fmt.Errorf("%w: frame is not an object", errors.ErrInvalidPayload)
	}
	data := []byte(envelope.Get("data").Raw)
	if len(data) == 0 {
		data = []byte("null")
	}
	switch Name(envelope.Get("event").String()) {
	case ChatName:
		return Chat{Payload: data}, nil
	case StatusName:
		return StatusUpdate{Payload: data}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event %q", errors.ErrInvalidPayload, envelope.Get("event").String())
	}
}

type envelope struct {
	Event Name `json:"event"`
	Data  any  `json:"data"`
}

// Encode wraps an outbound event into its wire envelope.
func Encode(evt Outbound) ([]byte, error) {
	return json.Marshal(envelope{Event: evt.Name(), Data: evt.Data()})
}
