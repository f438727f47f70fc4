package domain

import (
	"strconv"
	"time"
)

type ChannelID int64

func (c ChannelID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// ParseChannelID parses a channel id coming from a path segment or a flag.
func ParseChannelID(s string) (ChannelID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ChannelID(id), nil
}

type Channel struct {
	ID          ChannelID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	CreatedAt   time.Time `json:"created_at"`
}

// Membership is one (channel, user) pair as persisted by the store.
type Membership struct {
	ChannelID ChannelID `json:"channel_id"`
	Token     Token     `json:"user_id"`
}
