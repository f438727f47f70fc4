// Package e2e runs scenarios against the whole relay: REST, websocket,
// persist worker and a real store.
package e2e

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chat-relay/contract"
	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/storage"
	"chat-relay/storage/seed"
	"chat-relay/transport/rest"
	"chat-relay/transport/ws"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

const fixture = `
users:
  - id: alice
    display_name: Alice
  - id: bob
    display_name: Bob
channels:
  - name: general
    description: everyone
    members: [alice, bob]
`

type BaseSuite struct {
	suite.Suite
	Config Config

	server      *httptest.Server
	store       contract.Store
	cancel      context.CancelFunc
	stopWorkers context.CancelFunc
	workersDone chan struct{}
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// SetupTest boots a fresh relay on a fresh store for every test.
func (s *BaseSuite) SetupTest() {
	req := s.Require()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	dir := s.T().TempDir()
	store, err := storage.Open(ctx, storage.Config{
		Driver:     storage.Driver(s.Config.StoreDriver),
		BadgerPath: filepath.Join(dir, "badger"),
		SQLitePath: filepath.Join(dir, "chat.db"),
	}, log)
	req.NoError(err)
	s.store = store

	file, err := seed.Parse([]byte(fixture))
	req.NoError(err)
	_, err = seed.Apply(ctx, store, file, log)
	req.NoError(err)

	registry := observability.NewRegistry()
	metrics := observability.NewMetrics(registry)
	monitoring := observability.NewMonitoringManager()
	jobs := make(chan workers.Job, 64)
	orchestrator := runtime.NewOrchestrator(log, store, jobs, metrics, monitoring)
	req.NoError(orchestrator.Boot(ctx))

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	s.stopWorkers = stopWorkers
	s.workersDone = make(chan struct{})
	sup := workers.NewSupervisor(log).Add(workers.NewPersistWorker(log, jobs))
	go func() {
		defer close(s.workersDone)
		sup.Run(workersCtx)
	}()

	s.server = httptest.NewServer(rest.NewRouter(log, rest.Dependencies{
		Channels:   services.NewChannelService(store, orchestrator.Synchronizer()),
		Users:      services.NewUserService(store, orchestrator.Synchronizer()),
		Monitoring: monitoring,
		CacheStats: orchestrator.CacheStats,
		Gatherer:   registry,
		Websocket:  ws.NewHandler(ctx, log, orchestrator, ws.Config{MaxMessageSize: 8192, SendBufferSize: 64}),
	}))
}

func (s *BaseSuite) TearDownTest() {
	s.cancel()
	s.server.Close()
	s.stopWorkers()
	<-s.workersDone
	s.Require().NoError(s.store.Close())
}

// Step prints a header before running one stage of a scenario.
func (s *BaseSuite) Step(name string, fn func()) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
	fn()
}

// Call sends a REST request and returns the status and the body.
func (s *BaseSuite) Call(method, path, body string) (int, []byte) {
	req := s.Require()
	r, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	req.NoError(err)
	resp, err := s.server.Client().Do(r)
	req.NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	req.NoError(err)
	return resp.StatusCode, raw
}

type Client struct {
	t     *testing.T
	req   *require.Assertions
	conn  *websocket.Conn
	debug bool
}

func (s *BaseSuite) Dial(token string) *Client {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + token}})
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return &Client{t: s.T(), req: s.Require(), conn: conn, debug: s.Config.DebugFrames}
}

// Next skips frames until one carries the event name and returns its data.
func (c *Client) Next(name string) gjson.Result {
	c.req.NoError(c.conn.SetReadDeadline(time.Now().Add(3 * time.Second)))
	for {
		_, frame, err := c.conn.ReadMessage()
		c.req.NoError(err, "waiting for %q", name)
		if c.debug {
			c.t.Logf("FRAME %s", frame)
		}
		envelope := gjson.ParseBytes(frame)
		if envelope.Get("event").String() == name {
			return envelope.Get("data")
		}
	}
}

func (c *Client) Emit(name, data string) {
	frame := fmt.Sprintf(`{"event":%q,"data":%s}`, name, data)
	c.req.NoError(c.conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}
