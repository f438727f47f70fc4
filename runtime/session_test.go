package runtime

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/observability"
	"chat-relay/storage/memory"
	"chat-relay/storage/storetest"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// session is an in-memory contract.Session keeping what it was sent.
type session struct {
	token  domain.Token
	mu     sync.Mutex
	events []event.Outbound
	closed bool
}

func newSession(token domain.Token) *session {
	return &session{token: token}
}

func (s *session) Token() domain.Token { return s.token }

func (s *session) Send(evt event.Outbound) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.events = append(s.events, evt)
	return true
}

func (s *session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *session) received() []event.Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Outbound(nil), s.events...)
}

// named returns the events of the given name, in order.
func (s *session) named(name event.Name) []event.Outbound {
	var res []event.Outbound
	for _, evt := range s.received() {
		if evt.Name() == name {
			res = append(res, evt)
		}
	}
	return res
}

func (s *session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func newMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.NewRegistry())
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelError)
}

// newTestOrchestrator boots an orchestrator on a seeded memory store:
// alice and bob in general, bob alone in random, nobody in empty, carol
// in no channel. Persistence runs inline.
func newTestOrchestrator(t *testing.T) (*Orchestrator, *storetest.Recorder, storetest.Seed) {
	store := memory.New()
	seed := storetest.SeedStore(t, store)
	recorder := storetest.NewRecorder(store)
	orchestrator := NewOrchestrator(testLogger(), recorder, nil, newMetrics(), observability.NewMonitoringManager())
	require.NoError(t, orchestrator.Boot(context.Background()))
	recorder.Reset()
	return orchestrator, recorder, seed
}

// connect authenticates and connects a fresh session, then forgets what it
// received during the handshake.
func connect(t *testing.T, o *Orchestrator, token domain.Token) *session {
	require.NoError(t, o.Authenticate(context.Background(), token))
	s := newSession(token)
	o.Connect(context.Background(), s)
	s.reset()
	return s
}
