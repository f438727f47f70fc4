package runtime

import (
	"context"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
)

// storeFirst issues the store write and patches the cache only when the
// store reported success. On failure the cache is untouched.
// The patch returns before storeFirst does, so callers answer only once
// the cache reflects the mutation.
func storeFirst[T any](ctx context.Context, write func(context.Context) (T, error), patch func(T)) (T, error) {
	res, err := write(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	patch(res)
	return res, nil
}

// deliverThenPersist delivers first and hands persist to schedule. What
// deliver sent is never retracted, whatever persist reports.
func deliverThenPersist(ctx context.Context, deliver func(), persist workers.Job, schedule func(context.Context, workers.Job)) {
	deliver()
	schedule(ctx, persist)
}

// Synchronizer applies structural mutations: store first, then cache,
// then targeted notices to connected users.
type Synchronizer struct {
	log      *slog.Logger
	store    contract.Store
	cache    *Cache
	registry *Registry
	out      outbox
	metrics  *observability.Metrics
}

func NewSynchronizer(log *slog.Logger, store contract.Store, cache *Cache, registry *Registry, metrics *observability.Metrics) *Synchronizer {
	return &Synchronizer{
		log:      log,
		store:    store,
		cache:    cache,
		registry: registry,
		out:      outbox{log: log, metrics: metrics},
		metrics:  metrics,
	}
}

// CreateChannel returns the new channel once its empty member set exists.
func (s *Synchronizer) CreateChannel(ctx context.Context, name, description string, private bool) (domain.Channel, error) {
	channel, err := storeFirst(ctx,
		func(ctx context.Context) (domain.Channel, error) {
			return s.store.AddChannels(ctx, name, description, private)
		},
		func(channel domain.Channel) {
			s.cache.AddChannel(channel.ID)
		})
	s.record("create_channel", err)
	if err != nil {
		return domain.Channel{}, err
	}
	s.log.Info("Channel created", "channel_id", channel.ID, "name", channel.Name)
	return channel, nil
}

func (s *Synchronizer) AddMember(ctx context.Context, channelID domain.ChannelID, token domain.Token) error {
	_, err := storeFirst(ctx,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.store.AddChannelsUsers(ctx, channelID, token)
		},
		func(struct{}) {
			s.cache.AddMember(channelID, token)
		})
	s.record("add_member", err)
	if err != nil {
		return err
	}
	s.notify(token, event.MembershipChanged{ChannelID: channelID, Action: event.Added})
	return nil
}

// RemoveMember evicts the user from the channel recipients before returning,
// so no later fanout reaches them.
func (s *Synchronizer) RemoveMember(ctx context.Context, channelID domain.ChannelID, token domain.Token) error {
	_, err := storeFirst(ctx,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.store.RemoveChannelsUsers(ctx, channelID, token)
		},
		func(struct{}) {
			s.cache.RemoveMember(channelID, token)
		})
	s.record("remove_member", err)
	if err != nil {
		return err
	}
	s.notify(token, event.MembershipChanged{ChannelID: channelID, Action: event.Removed})
	return nil
}

// RenameUser takes the new name from the caller only, and broadcasts it to
// every session since names appear in chat payloads already delivered.
func (s *Synchronizer) RenameUser(ctx context.Context, token domain.Token, displayName string) error {
	var previous string
	_, err := storeFirst(ctx,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.store.UpdateUserDisplayName(ctx, token, displayName)
		},
		func(struct{}) {
			previous = s.cache.SetName(token, displayName)
		})
	s.record("rename_user", err)
	if err != nil {
		return err
	}
	delivered := s.out.broadcast(s.registry.All(), event.Renamed{Previous: previous, User: displayName})
	s.log.Info("User renamed", "user", token, "previous", previous, "delivered", delivered)
	return nil
}

// ClearUnread resets the counter and pushes it to the user when connected.
func (s *Synchronizer) ClearUnread(ctx context.Context, token domain.Token, channelID domain.ChannelID) (int, error) {
	unread, err := s.store.UpdateUnreadMessage(ctx, domain.ClearUnread, token, channelID)
	s.record("clear_unread", err)
	if err != nil {
		return 0, err
	}
	s.notify(token, event.Notification{ChannelID: channelID, Unread: unread})
	return unread, nil
}

func (s *Synchronizer) notify(token domain.Token, evt event.Outbound) {
	if session, ok := s.registry.Lookup(token); ok {
		s.out.send(session, evt)
	}
}

func (s *Synchronizer) record(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
		s.log.Warn("Mutation rejected by store", "kind", kind, "error", err)
	}
	s.metrics.Mutations.WithLabelValues(kind, outcome).Inc()
}
