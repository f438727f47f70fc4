// Package domain contains core concepts of the chat system.
// This file defines persisted chat messages and timestamp rules.
package domain

import (
	"strings"
	"time"
)

// Message is a chat message as persisted by the store.
// Timestamp keeps the caller-supplied string untouched.
type Message struct {
	ID         string    `json:"id"`
	Body       string    `json:"body"`
	Author     Token     `json:"user_id"`
	AuthorName string    `json:"display_name,omitempty"`
	Timestamp  string    `json:"created_at"`
	ChannelID  ChannelID `json:"channel_id"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	time.UnixDate,
	time.ANSIC,
}

// ParseTimestamp accepts the ISO-8601 shapes browsers produce with
// Date.toISOString as well as the common RFC date formats.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
