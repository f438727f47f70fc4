package domain

type Status string

const (
	Online  Status = "Online"
	Away    Status = "Away"
	Offline Status = "Offline"
)

// IsSelfReported tells whether a client may set this status itself.
// Offline is only ever derived from a disconnect.
func (s Status) IsSelfReported() bool {
	return s == Online || s == Away
}

// UserStatus is one entry of the presence snapshot sent on connect.
type UserStatus struct {
	User   string `json:"user"`
	Status Status `json:"status"`
}
