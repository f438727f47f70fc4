package runtime

import (
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/observability"
)

// outbox queues outbound events on sessions. Sending never blocks: a
// session that cannot take the event is being closed by its transport.
type outbox struct {
	log     *slog.Logger
	metrics *observability.Metrics
}

func (o outbox) send(session contract.Session, evt event.Outbound) bool {
	if !session.Send(evt) {
		o.log.Debug("Event not queued", "user", session.Token(), "event", evt.Name())
		return false
	}
	o.metrics.Delivered.WithLabelValues(string(evt.Name())).Inc()
	return true
}

func (o outbox) broadcast(sessions []contract.Session, evt event.Outbound) int {
	delivered := 0
	for _, session := range sessions {
		if o.send(session, evt) {
			delivered++
		}
	}
	return delivered
}
