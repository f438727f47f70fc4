package domain

// UnreadFunc names the stored procedure applied to an unread counter.
type UnreadFunc string

const (
	IncrementUnread UnreadFunc = "increment_unread"
	ClearUnread     UnreadFunc = "clear_unread"
)

func (f UnreadFunc) IsValid() bool {
	return f == IncrementUnread || f == ClearUnread
}
