package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chat-relay/domain"
	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/services"
	"chat-relay/storage/memory"
	"chat-relay/storage/storetest"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router http.Handler
	store  *memory.Store
	seed   storetest.Seed
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	store := memory.New()
	seed := storetest.SeedStore(t, store)
	registry := prometheus.NewRegistry()
	monitoring := observability.NewMonitoringManager()
	orchestrator := runtime.NewOrchestrator(log, store, nil, observability.NewMetrics(registry), monitoring)
	require.NoError(t, orchestrator.Boot(context.Background()))

	router := NewRouter(log, Dependencies{
		Channels:   services.NewChannelService(store, orchestrator.Synchronizer()),
		Users:      services.NewUserService(store, orchestrator.Synchronizer()),
		Monitoring: monitoring,
		CacheStats: orchestrator.CacheStats,
		Gatherer:   registry,
	})
	return fixture{router: router, store: store, seed: seed}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestRouter_Root(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	w := f.do(http.MethodGet, "/", "")

	req.Equal(http.StatusOK, w.Code)
	req.Equal(banner, w.Body.String())
}

func TestRouter_UnknownEndpoint(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		method string
		target string
		want   string
	}{
		{http.MethodGet, "/bad", "Invalid method or endpoint: GET http://example.com/bad"},
		{http.MethodPost, "/health", "Invalid method or endpoint: POST http://example.com/health"},
		{http.MethodPut, "/channels/1/users?x=1", "Invalid method or endpoint: PUT http://example.com/channels/1/users?x=1"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			req := require.New(t)

			w := f.do(tc.method, tc.target, "")

			req.Equal(http.StatusBadRequest, w.Code)
			req.Equal(tc.want, decodeError(t, w))
		})
	}
}

func TestRouter_Reads(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// Members of general
	w := f.do(http.MethodGet, fmt.Sprintf("/channels/%d/users", f.seed.General), "")
	req.Equal(http.StatusOK, w.Code)
	var users []domain.User
	req.NoError(json.Unmarshal(w.Body.Bytes(), &users))
	req.Len(users, 2)
	req.ElementsMatch([]domain.Token{"alice", "bob"}, []domain.Token{users[0].Token, users[1].Token})

	// No history yet is an empty list, not null
	w = f.do(http.MethodGet, fmt.Sprintf("/channels/%d/messages", f.seed.General), "")
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`[]`, w.Body.String())

	// Channels of bob
	w = f.do(http.MethodGet, "/users/bob/channels", "")
	req.Equal(http.StatusOK, w.Code)
	var channels []domain.Channel
	req.NoError(json.Unmarshal(w.Body.Bytes(), &channels))
	req.Len(channels, 2)

	// A channel id that is not a number
	w = f.do(http.MethodGet, "/channels/general/messages", "")
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestRouter_CreateChannel(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	w := f.do(http.MethodPost, "/channels", `{"name":" ops ","description":"on call","private":true}`)

	req.Equal(http.StatusCreated, w.Code)
	var channel domain.Channel
	req.NoError(json.Unmarshal(w.Body.Bytes(), &channel))
	req.Equal("ops", channel.Name)
	req.True(channel.Private)

	w = f.do(http.MethodPost, "/channels", `{"description":"nameless"}`)
	req.Equal(http.StatusBadRequest, w.Code)
	req.Contains(decodeError(t, w), `"name" is required`)

	w = f.do(http.MethodPost, "/channels", `{not json`)
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestRouter_Membership(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	// When carol is added to general
	w := f.do(http.MethodPost, fmt.Sprintf("/channels/%d/users", f.seed.General), `{"user_id":"carol"}`)
	req.Equal(http.StatusNoContent, w.Code)

	// Then the store knows it
	members, err := f.store.ReadAllUsersInChannel(ctx, f.seed.General)
	req.NoError(err)
	req.Len(members, 3)

	// When added twice
	w = f.do(http.MethodPost, fmt.Sprintf("/channels/%d/users", f.seed.General), `{"user_id":"carol"}`)
	req.Equal(http.StatusConflict, w.Code)

	// When an unknown user is added
	w = f.do(http.MethodPost, fmt.Sprintf("/channels/%d/users", f.seed.General), `{"user_id":"mallory"}`)
	req.Equal(http.StatusNotFound, w.Code)

	// When carol is removed
	w = f.do(http.MethodDelete, fmt.Sprintf("/channels/%d/users/carol", f.seed.General), "")
	req.Equal(http.StatusNoContent, w.Code)

	// When she is removed again
	w = f.do(http.MethodDelete, fmt.Sprintf("/channels/%d/users/carol", f.seed.General), "")
	req.Equal(http.StatusNotFound, w.Code)
}

func TestRouter_RenameAndMarkRead(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	w := f.do(http.MethodPatch, "/users/alice", `{"display_name":"Alicia"}`)
	req.Equal(http.StatusNoContent, w.Code)
	user, err := f.store.ReadUser(ctx, "alice")
	req.NoError(err)
	req.Equal("Alicia", user.DisplayName)

	w = f.do(http.MethodPatch, "/users/alice", `{"display_name":""}`)
	req.Equal(http.StatusBadRequest, w.Code)

	_, err = f.store.UpdateUnreadMessage(ctx, domain.IncrementUnread, "alice", f.seed.General)
	req.NoError(err)

	w = f.do(http.MethodPost, fmt.Sprintf("/users/alice/channels/%d/read", f.seed.General), "")
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(fmt.Sprintf(`{"channel_id":%d,"unread":0}`, f.seed.General), w.Body.String())
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	w := f.do(http.MethodGet, "/health", "")
	req.Equal(http.StatusOK, w.Code)
	var stats observability.MonitoringStats
	req.NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	req.Equal(3, stats.Users)
	req.Equal(3, stats.Channels)
	req.Equal(int64(0), stats.Sessions)

	w = f.do(http.MethodGet, "/metrics", "")
	req.Equal(http.StatusOK, w.Code)
	req.Contains(w.Body.String(), "chat_relay_")
}

func TestRecoverer(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	handler := recoverer(log, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	req.Equal(http.StatusInternalServerError, w.Code)
	req.Equal(internalError, decodeError(t, w))
}
