// Package runtime holds the in-process state of the relay: who is connected,
// who belongs where, who is online. It routes inbound events and keeps the
// cache consistent with the store.
package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
	"chat-relay/validation"
)

// Orchestrator is the single router of inbound events. It owns the
// registry, the cache, presence, fanout and the synchronizer.
type Orchestrator struct {
	log          *slog.Logger
	store        contract.Store
	registry     *Registry
	cache        *Cache
	presence     *Presence
	fanout       *Fanout
	synchronizer *Synchronizer
	out          outbox
	metrics      *observability.Metrics
	monitoring   *observability.MonitoringManager

	// lifecycle makes registration and the presence change it implies one
	// step, so a closing session cannot mark a newer one Offline.
	lifecycle sync.Mutex
}

// NewOrchestrator wires the runtime components. jobs may be nil, persistence
// then runs in the calling goroutine.
func NewOrchestrator(log *slog.Logger, store contract.Store, jobs chan<- workers.Job,
	metrics *observability.Metrics, monitoring *observability.MonitoringManager) *Orchestrator {
	registry := NewRegistry()
	cache := NewCache(log)
	return &Orchestrator{
		log:          log,
		store:        store,
		registry:     registry,
		cache:        cache,
		presence:     NewPresence(log, registry, cache, metrics),
		fanout:       NewFanout(log, store, cache, registry, jobs, metrics),
		synchronizer: NewSynchronizer(log, store, cache, registry, metrics),
		out:          outbox{log: log, metrics: metrics},
		metrics:      metrics,
		monitoring:   monitoring,
	}
}

// Boot loads the cache. The process must not serve when it fails.
func (o *Orchestrator) Boot(ctx context.Context) error {
	return o.cache.Boot(ctx, o.store)
}

// Authenticate admits a token the cache knows, or one the store can
// rehydrate.
func (o *Orchestrator) Authenticate(ctx context.Context, token domain.Token) error {
	if token.IsEmpty() {
		return errors.ErrAuthMissing
	}
	if o.cache.Knows(token) {
		return nil
	}
	if err := o.cache.Rehydrate(ctx, o.store, token); err != nil {
		o.log.Debug("Handshake rejected", "user", token, "error", err)
		if stderrors.Is(err, errors.ErrAuthUnknown) {
			return err
		}
		return fmt.Errorf("%w: %w", errors.ErrAuthUnknown, err)
	}
	return nil
}

// Connect registers an authenticated session, broadcasts its Online status
// and then sends it the presence snapshot.
func (o *Orchestrator) Connect(_ context.Context, session contract.Session) {
	token := session.Token()
	o.lifecycle.Lock()
	if replaced := o.registry.Register(session); replaced != nil {
		o.log.Info("Session replaced by a newer connection", "user", token)
	} else {
		o.metrics.Sessions.Inc()
		o.monitoring.IncrSessions()
	}
	o.presence.Transition(token, domain.Online)
	o.lifecycle.Unlock()
	o.out.send(session, event.NewConnected(o.presence.Snapshot()))
	o.log.Info("User connected", "user", token)
}

// Disconnect broadcasts Offline before the registry entry goes away.
// A session that was already replaced leaves presence untouched.
func (o *Orchestrator) Disconnect(session contract.Session) {
	token := session.Token()
	o.lifecycle.Lock()
	defer o.lifecycle.Unlock()
	if !o.registry.IsCurrent(session) {
		o.log.Debug("Stale session closed", "user", token)
		return
	}
	o.presence.Transition(token, domain.Offline)
	if o.registry.Unregister(session) {
		o.metrics.Sessions.Dec()
		o.monitoring.DecrSessions()
	}
	o.log.Info("User disconnected", "user", token)
}

// Dispatch handles one inbound event of a registered session.
func (o *Orchestrator) Dispatch(ctx context.Context, session contract.Session, evt event.Inbound) {
	switch evt := evt.(type) {
	case event.Chat:
		msg, err := validation.ValidateChat(evt.Payload, session.Token(), o.cache)
		if err != nil {
			o.metrics.ValidationErrors.Inc()
			o.log.Debug("Chat message rejected", "user", session.Token(), "error", err)
			o.out.send(session, event.Error(err.Error()))
			return
		}
		o.fanout.Route(ctx, session, evt.Payload, msg)
	case event.StatusUpdate:
		status, ok := validation.ValidateStatus(evt.Payload)
		if !ok {
			o.log.Debug("Status update dropped", "user", session.Token(), "payload", string(evt.Payload))
			return
		}
		o.presence.Transition(session.Token(), status)
	default:
		o.log.Warn("Unhandled event", "event", evt.Name())
	}
}

func (o *Orchestrator) Synchronizer() *Synchronizer {
	return o.synchronizer
}

func (o *Orchestrator) Store() contract.Store {
	return o.store
}

// Sessions returns the number of registered sessions.
func (o *Orchestrator) Sessions() int {
	return o.registry.Len()
}

// CacheStats returns the number of known users and channels.
func (o *Orchestrator) CacheStats() (int, int) {
	return o.cache.Stats()
}

func (o *Orchestrator) Presence(token domain.Token) (domain.Status, bool) {
	return o.presence.Status(token)
}
