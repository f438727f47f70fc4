// Package storetest provides a call-recording store and the behaviour every
// store adapter must share.
package storetest

import (
	"context"
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
)

// Recorder wraps a store. It records every call name in order, runs the
// hooks registered for a call before forwarding it, and fails the calls it
// was told to fail without forwarding them.
type Recorder struct {
	contract.Store

	mu    sync.Mutex
	calls []string
	fails map[string]error
	hooks map[string]func()
}

func NewRecorder(store contract.Store) *Recorder {
	return &Recorder{
		Store: store,
		fails: make(map[string]error),
		hooks: make(map[string]func()),
	}
}

// FailOn makes every later call to method return err.
func (r *Recorder) FailOn(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails[method] = err
}

// Before runs hook when method is called, before the wrapped store is.
func (r *Recorder) Before(method string, hook func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[method] = hook
}

func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(method string) error {
	r.mu.Lock()
	r.calls = append(r.calls, method)
	hook := r.hooks[method]
	err := r.fails[method]
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (r *Recorder) ReadUser(ctx context.Context, token domain.Token) (domain.User, error) {
	if err := r.record("ReadUser"); err != nil {
		return domain.User{}, err
	}
	return r.Store.ReadUser(ctx, token)
}

func (r *Recorder) ReadAllUsers(ctx context.Context) ([]domain.User, error) {
	if err := r.record("ReadAllUsers"); err != nil {
		return nil, err
	}
	return r.Store.ReadAllUsers(ctx)
}

func (r *Recorder) ReadAllUsersInChannel(ctx context.Context, channelID domain.ChannelID) ([]domain.User, error) {
	if err := r.record("ReadAllUsersInChannel"); err != nil {
		return nil, err
	}
	return r.Store.ReadAllUsersInChannel(ctx, channelID)
}

func (r *Recorder) ReadAllChannels(ctx context.Context) ([]domain.Channel, error) {
	if err := r.record("ReadAllChannels"); err != nil {
		return nil, err
	}
	return r.Store.ReadAllChannels(ctx)
}

func (r *Recorder) ReadAllChannelsForUser(ctx context.Context, token domain.Token) ([]domain.Channel, error) {
	if err := r.record("ReadAllChannelsForUser"); err != nil {
		return nil, err
	}
	return r.Store.ReadAllChannelsForUser(ctx, token)
}

func (r *Recorder) ReadAllChannelsUsers(ctx context.Context) ([]domain.Membership, error) {
	if err := r.record("ReadAllChannelsUsers"); err != nil {
		return nil, err
	}
	return r.Store.ReadAllChannelsUsers(ctx)
}

func (r *Recorder) ReadAllMessagesInChannel(ctx context.Context, channelID domain.ChannelID) ([]domain.Message, error) {
	if err := r.record("ReadAllMessagesInChannel"); err != nil {
		return nil, err
	}
	return r.Store.ReadAllMessagesInChannel(ctx, channelID)
}

func (r *Recorder) InsertMessage(ctx context.Context, body string, token domain.Token, timestamp string, channelID domain.ChannelID) (domain.Message, error) {
	if err := r.record("InsertMessage"); err != nil {
		return domain.Message{}, err
	}
	return r.Store.InsertMessage(ctx, body, token, timestamp, channelID)
}

func (r *Recorder) AddUsers(ctx context.Context, user domain.User) error {
	if err := r.record("AddUsers"); err != nil {
		return err
	}
	return r.Store.AddUsers(ctx, user)
}

func (r *Recorder) AddChannels(ctx context.Context, name, description string, private bool) (domain.Channel, error) {
	if err := r.record("AddChannels"); err != nil {
		return domain.Channel{}, err
	}
	return r.Store.AddChannels(ctx, name, description, private)
}

func (r *Recorder) AddChannelsUsers(ctx context.Context, channelID domain.ChannelID, token domain.Token) error {
	if err := r.record("AddChannelsUsers"); err != nil {
		return err
	}
	return r.Store.AddChannelsUsers(ctx, channelID, token)
}

func (r *Recorder) RemoveChannelsUsers(ctx context.Context, channelID domain.ChannelID, token domain.Token) error {
	if err := r.record("RemoveChannelsUsers"); err != nil {
		return err
	}
	return r.Store.RemoveChannelsUsers(ctx, channelID, token)
}

func (r *Recorder) UpdateUserDisplayName(ctx context.Context, token domain.Token, displayName string) error {
	if err := r.record("UpdateUserDisplayName"); err != nil {
		return err
	}
	return r.Store.UpdateUserDisplayName(ctx, token, displayName)
}

func (r *Recorder) UpdateUnreadMessage(ctx context.Context, fn domain.UnreadFunc, token domain.Token, channelID domain.ChannelID) (int, error) {
	if err := r.record("UpdateUnreadMessage"); err != nil {
		return 0, err
	}
	return r.Store.UpdateUnreadMessage(ctx, fn, token, channelID)
}
