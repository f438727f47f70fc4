package runtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
	"chat-relay/validation"

	"github.com/tidwall/sjson"
)

// Fanout delivers a validated chat message to the connected members of its
// channel, then persists it. Absent members are skipped, nothing is queued
// for them.
type Fanout struct {
	log      *slog.Logger
	store    contract.Store
	cache    *Cache
	registry *Registry
	jobs     chan<- workers.Job
	out      outbox
	metrics  *observability.Metrics
}

func NewFanout(log *slog.Logger, store contract.Store, cache *Cache, registry *Registry,
	jobs chan<- workers.Job, metrics *observability.Metrics) *Fanout {
	return &Fanout{
		log:      log,
		store:    store,
		cache:    cache,
		registry: registry,
		jobs:     jobs,
		out:      outbox{log: log, metrics: metrics},
		metrics:  metrics,
	}
}

// Route returns the number of sessions the message was queued on.
// The sender's display name is read here, at delivery time.
func (f *Fanout) Route(ctx context.Context, sender contract.Session, payload []byte, msg validation.ChatMessage) int {
	recipients := f.cache.Members(msg.ChannelID)
	delivered := 0

	deliverThenPersist(ctx,
		func() {
			augmented, err := sjson.SetBytes(payload, "user", f.cache.DisplayName(sender.Token()))
			if err != nil {
				f.log.Error("Cannot add user to chat payload", "error", err)
				return
			}
			evt := event.ChatDelivered{Payload: json.RawMessage(augmented)}
			for _, token := range recipients {
				if session, ok := f.registry.Lookup(token); ok && f.out.send(session, evt) {
					delivered++
				}
			}
		},
		func(ctx context.Context) {
			f.persist(ctx, sender, msg, recipients)
		},
		f.schedule)

	f.log.Debug("Chat message routed", "channel_id", msg.ChannelID, "members", len(recipients), "delivered", delivered)
	return delivered
}

// persist saves the message, then bumps the unread counter of every
// recipient, sender included, and pushes the new count to those connected.
func (f *Fanout) persist(ctx context.Context, sender contract.Session, msg validation.ChatMessage, recipients []domain.Token) {
	saved, err := f.store.InsertMessage(ctx, msg.Body, sender.Token(), msg.Timestamp, msg.ChannelID)
	if err != nil {
		f.metrics.PersistenceFailures.Inc()
		f.log.Error("Chat message failed to save",
			"user", sender.Token(), "channel_id", msg.ChannelID, "error", err)
		f.out.send(sender, event.Error(errors.ErrPersistence.Error()))
		return
	}

	for _, token := range recipients {
		unread, err := f.store.UpdateUnreadMessage(ctx, domain.IncrementUnread, token, msg.ChannelID)
		if err != nil {
			f.log.Error("Unread counter not updated",
				"user", token, "channel_id", msg.ChannelID, "message_id", saved.ID, "error", err)
			continue
		}
		if session, ok := f.registry.Lookup(token); ok {
			f.out.send(session, event.Notification{ChannelID: msg.ChannelID, Unread: unread})
		}
	}
}

func (f *Fanout) schedule(ctx context.Context, job workers.Job) {
	workers.Schedule(ctx, f.jobs, job)
}
