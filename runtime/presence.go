package runtime

import (
	"log/slog"
	"sync"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/observability"
)

// Presence owns the status of every token seen since the process started.
// A token absent from it has never connected.
type Presence struct {
	mu       sync.Mutex
	log      *slog.Logger
	statuses map[domain.Token]domain.Status
	order    []domain.Token // first-seen order, used by Snapshot
	registry *Registry
	cache    *Cache
	out      outbox
	metrics  *observability.Metrics
}

func NewPresence(log *slog.Logger, registry *Registry, cache *Cache, metrics *observability.Metrics) *Presence {
	return &Presence{
		log:      log,
		statuses: make(map[domain.Token]domain.Status),
		registry: registry,
		cache:    cache,
		out:      outbox{log: log, metrics: metrics},
		metrics:  metrics,
	}
}

// Transition records the new status and broadcasts it to every registered
// session, whatever channels they share. The lock is held across the
// broadcast so that two transitions are seen by everyone in the same order.
func (p *Presence) Transition(token domain.Token, status domain.Status) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.statuses[token]; !ok {
		p.order = append(p.order, token)
	}
	p.statuses[token] = status
	p.metrics.PresenceTransitions.WithLabelValues(string(status)).Inc()

	evt := event.StatusChanged{User: p.cache.DisplayName(token), Status: status}
	delivered := p.out.broadcast(p.registry.All(), evt)
	p.log.Debug("Presence changed", "user", token, "status", status, "delivered", delivered)
	return delivered
}

// Snapshot lists every known status, each token once, with the display
// name as it is now.
func (p *Presence) Snapshot() []domain.UserStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := make([]domain.UserStatus, 0, len(p.order))
	for _, token := range p.order {
		snapshot = append(snapshot, domain.UserStatus{
			User:   p.cache.DisplayName(token),
			Status: p.statuses[token],
		})
	}
	return snapshot
}

func (p *Presence) Status(token domain.Token) (domain.Status, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, ok := p.statuses[token]
	return status, ok
}
