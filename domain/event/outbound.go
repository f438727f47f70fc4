package event

import (
	"encoding/json"

	"chat-relay/domain"
)

type Outbound interface {
	Name() Name
	Data() any
}

type Connected struct {
	Status     string              `json:"status"`
	UserStatus []domain.UserStatus `json:"userStatus"`
}

func NewConnected(snapshot []domain.UserStatus) Connected {
	if snapshot == nil {
		snapshot = []domain.UserStatus{}
	}
	return Connected{Status: "connected", UserStatus: snapshot}
}

func (Connected) Name() Name  { return ConnectedName }
func (c Connected) Data() any { return c }

// ChatDelivered is the sender's original payload with the "user" field set.
type ChatDelivered struct {
	Payload json.RawMessage
}

func (ChatDelivered) Name() Name  { return ChatName }
func (c ChatDelivered) Data() any { return c.Payload }

type StatusChanged struct {
	User   string        `json:"user"`
	Status domain.Status `json:"status"`
}

func (StatusChanged) Name() Name  { return StatusName }
func (s StatusChanged) Data() any { return s }

type Notification struct {
	ChannelID domain.ChannelID `json:"channel_id"`
	Unread    int              `json:"unread"`
}

func (Notification) Name() Name  { return NotificationsName }
func (n Notification) Data() any { return n }

// Error is delivered as a bare JSON string.
type Error string

func (Error) Name() Name  { return ErrorName }
func (e Error) Data() any { return string(e) }

type MembershipAction string

const (
	Added   MembershipAction = "added"
	Removed MembershipAction = "removed"
)

type MembershipChanged struct {
	ChannelID domain.ChannelID `json:"channel_id"`
	Action    MembershipAction `json:"action"`
}

func (MembershipChanged) Name() Name  { return MembershipName }
func (m MembershipChanged) Data() any { return m }

type Renamed struct {
	Previous string `json:"previous"`
	User     string `json:"user"`
}

func (Renamed) Name() Name  { return RenameName }
func (r Renamed) Data() any { return r }
