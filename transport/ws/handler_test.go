package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat-relay/domain"
	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/storage/memory"
	"chat-relay/storage/storetest"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type harness struct {
	server *httptest.Server
	seed   storetest.Seed
	cancel context.CancelFunc
}

func newHarness(t *testing.T, config Config) *harness {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	store := memory.New()
	seed := storetest.SeedStore(t, store)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	orchestrator := runtime.NewOrchestrator(log, store, nil, metrics, observability.NewMonitoringManager())
	require.NoError(t, orchestrator.Boot(context.Background()))

	base, cancel := context.WithCancel(context.Background())
	server := httptest.NewServer(NewHandler(base, log, orchestrator, config))
	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return &harness{server: server, seed: seed, cancel: cancel}
}

func defaultConfig() Config {
	return Config{MaxMessageSize: 4096, SendBufferSize: 16}
}

func (h *harness) url(query string) string {
	return "ws" + strings.TrimPrefix(h.server.URL, "http") + query
}

func (h *harness) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.DefaultDialer.Dial(h.url(""), header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// next returns the next frame carrying the given event name, skipping others.
func next(t *testing.T, conn *websocket.Conn, name string) gjson.Result {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", name)
		envelope := gjson.ParseBytes(frame)
		if envelope.Get("event").String() == name {
			return envelope.Get("data")
		}
	}
}

func emit(t *testing.T, conn *websocket.Conn, name, data string) {
	t.Helper()
	frame := fmt.Sprintf(`{"event":%q,"data":%s}`, name, data)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func TestHandshake_Rejected(t *testing.T) {
	h := newHarness(t, defaultConfig())

	cases := []struct {
		name  string
		token string
		want  string
	}{
		{name: "missing token", token: "", want: "Auth token not provided"},
		{name: "unknown token", token: "mallory", want: "Auth token does not match a user"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			conn := h.dial(t, tc.token)

			// Then the reason arrives as an error event
			data := next(t, conn, "error")
			req.Equal(gjson.String, data.Type)
			req.Equal(tc.want, data.Str)

			// And the socket is closed
			_, _, err := conn.ReadMessage()
			req.Error(err)
		})
	}
}

func TestHandshake_QueryToken(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, defaultConfig())

	conn, _, err := websocket.DefaultDialer.Dial(h.url("?token=alice"), nil)
	req.NoError(err)
	defer conn.Close()

	data := next(t, conn, "connected")
	req.Equal("connected", data.Get("status").String())
}

func TestSession_ChatAndPresence(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, defaultConfig())

	// Given alice connected
	alice := h.dial(t, "alice")
	snapshot := next(t, alice, "connected")
	req.Equal("Alice", snapshot.Get("userStatus.0.user").String())
	req.Equal(string(domain.Online), snapshot.Get("userStatus.0.status").String())

	// When bob connects alice sees him online
	bob := h.dial(t, "bob")
	next(t, bob, "connected")
	status := next(t, alice, "status")
	req.Equal("Bob", status.Get("user").String())
	req.Equal("Online", status.Get("status").String())

	// When alice writes to general
	emit(t, alice, "chat", fmt.Sprintf(`{"body":"hi","timestamp":"2024-01-01T00:00:00.000Z","channel_id":%d}`, h.seed.General))

	// Then bob receives it with her name, then his unread counter
	chat := next(t, bob, "chat")
	req.Equal("hi", chat.Get("body").String())
	req.Equal("Alice", chat.Get("user").String())
	req.Equal(int64(h.seed.General), chat.Get("channel_id").Int())
	notification := next(t, bob, "notifications")
	req.Equal(int64(h.seed.General), notification.Get("channel_id").Int())
	req.Equal(int64(1), notification.Get("unread").Int())

	// When bob leaves alice sees him offline
	req.NoError(bob.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	status = next(t, alice, "status")
	req.Equal("Bob", status.Get("user").String())
	req.Equal("Offline", status.Get("status").String())
}

func TestSession_InvalidChatAnsweredToSender(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, defaultConfig())
	alice := h.dial(t, "alice")
	next(t, alice, "connected")

	emit(t, alice, "chat", `{"timestamp":"2024-01-01T00:00:00.000Z","channel_id":1}`)

	data := next(t, alice, "error")
	req.Equal(`Chat message missing "body" property`, data.Str)
}

func TestSession_UnknownFrameIgnored(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, defaultConfig())
	alice := h.dial(t, "alice")
	next(t, alice, "connected")

	// Given garbage and an unknown event
	req.NoError(alice.WriteMessage(websocket.TextMessage, []byte("not json")))
	emit(t, alice, "typing", `{}`)

	// Then the session is still usable
	emit(t, alice, "status", `{"status":"Away"}`)
	status := next(t, alice, "status")
	req.Equal("Away", status.Get("status").String())
}

func TestSession_ClosedOnShutdown(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, defaultConfig())
	alice := h.dial(t, "alice")
	next(t, alice, "connected")

	h.cancel()

	req.NoError(alice.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		if _, _, err := alice.ReadMessage(); err != nil {
			req.True(websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			return
		}
	}
}

func TestOrigin(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, Config{AllowedOrigins: []string{"https://chat.example.com"}, MaxMessageSize: 4096, SendBufferSize: 16})

	header := http.Header{"Authorization": {"Bearer alice"}, "Origin": {"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(h.url(""), header)
	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Equal(http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "HTTPS://Chat.Example.com")
	conn, _, err := websocket.DefaultDialer.Dial(h.url(""), header)
	req.NoError(err)
	_ = conn.Close()
}

func TestTokenFromRequest(t *testing.T) {
	req := require.New(t)

	r := httptest.NewRequest(http.MethodGet, "/?token=query", nil)
	req.Equal(domain.Token("query"), TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer header")
	req.Equal(domain.Token("header"), TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	req.True(TokenFromRequest(r).IsEmpty())
}

func TestOriginPolicy(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	withOrigin := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := newOriginPolicy(log, nil)
	req.True(open.check(withOrigin("https://anything.test")))

	strict := newOriginPolicy(log, []string{"https://a.test", "not an origin"})
	req.True(strict.check(withOrigin("https://a.test")))
	req.True(strict.check(withOrigin("")))
	req.False(strict.check(withOrigin("https://b.test")))

	wildcard := newOriginPolicy(log, []string{"https://a.test", "*"})
	req.True(wildcard.check(withOrigin("https://b.test")))
}
