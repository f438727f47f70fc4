//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Session is the live transport handle of one connected user.
// Send never blocks: it reports false when the event could not be queued.
type Session interface {
	Token() domain.Token
	Send(evt event.Outbound) bool
	Close()
}

// Store is the persistent collaborator. It is the source of truth for
// users, channels, memberships, messages and unread counters.
// Errors carry the reported status as *errors.StoreError.
type Store interface {
	ReadUser(ctx context.Context, token domain.Token) (domain.User, error)
	ReadAllUsers(ctx context.Context) ([]domain.User, error)
	ReadAllUsersInChannel(ctx context.Context, channelID domain.ChannelID) ([]domain.User, error)
	ReadAllChannels(ctx context.Context) ([]domain.Channel, error)
	ReadAllChannelsForUser(ctx context.Context, token domain.Token) ([]domain.Channel, error)
	ReadAllChannelsUsers(ctx context.Context) ([]domain.Membership, error)
	ReadAllMessagesInChannel(ctx context.Context, channelID domain.ChannelID) ([]domain.Message, error)
	InsertMessage(ctx context.Context, body string, token domain.Token, timestamp string, channelID domain.ChannelID) (domain.Message, error)
	AddUsers(ctx context.Context, user domain.User) error
	AddChannels(ctx context.Context, name, description string, private bool) (domain.Channel, error)
	AddChannelsUsers(ctx context.Context, channelID domain.ChannelID, token domain.Token) error
	RemoveChannelsUsers(ctx context.Context, channelID domain.ChannelID, token domain.Token) error
	UpdateUserDisplayName(ctx context.Context, token domain.Token, displayName string) error
	UpdateUnreadMessage(ctx context.Context, fn domain.UnreadFunc, token domain.Token, channelID domain.ChannelID) (int, error)
	Close() error
}

// IOrchestrator is what the websocket transport needs from the runtime.
type IOrchestrator interface {
	Authenticate(ctx context.Context, token domain.Token) error
	Connect(ctx context.Context, session Session)
	Disconnect(session Session)
	Dispatch(ctx context.Context, session Session, evt event.Inbound)
}

// IMutator applies structural changes: store first, then the cache, then
// notices to the users concerned.
type IMutator interface {
	CreateChannel(ctx context.Context, name, description string, private bool) (domain.Channel, error)
	AddMember(ctx context.Context, channelID domain.ChannelID, token domain.Token) error
	RemoveMember(ctx context.Context, channelID domain.ChannelID, token domain.Token) error
	RenameUser(ctx context.Context, token domain.Token, displayName string) error
	ClearUnread(ctx context.Context, token domain.Token, channelID domain.ChannelID) (int, error)
}
