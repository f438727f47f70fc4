// Package rest exposes the HTTP endpoints next to the websocket: history
// reads, structural mutations, health and metrics.
package rest

import (
	"log/slog"
	"net/http"

	"chat-relay/observability"
	"chat-relay/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const banner = "Backend REST API running"

type Dependencies struct {
	Channels   services.IChannelService
	Users      services.IUserService
	Monitoring *observability.MonitoringManager
	// CacheStats reports the number of cached users and channels.
	CacheStats func() (int, int)
	Gatherer   prometheus.Gatherer
	// Websocket is mounted on GET /ws when set.
	Websocket http.Handler
}

type handlers struct {
	log  *slog.Logger
	deps Dependencies
}

func NewRouter(log *slog.Logger, deps Dependencies) http.Handler {
	h := &handlers{log: log, deps: deps}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.root)
	mux.HandleFunc("GET /health", h.health)
	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	if deps.Websocket != nil {
		mux.Handle("GET /ws", deps.Websocket)
	}

	mux.HandleFunc("GET /users/{userId}/channels", h.userChannels)
	mux.HandleFunc("PATCH /users/{userId}", h.renameUser)
	mux.HandleFunc("POST /users/{userId}/channels/{channelId}/read", h.markRead)

	mux.HandleFunc("POST /channels", h.createChannel)
	mux.HandleFunc("GET /channels/{channelId}/users", h.channelUsers)
	mux.HandleFunc("GET /channels/{channelId}/messages", h.channelMessages)
	mux.HandleFunc("POST /channels/{channelId}/users", h.addMember)
	mux.HandleFunc("DELETE /channels/{channelId}/users/{userId}", h.removeMember)

	// Any method or path not matched above.
	mux.HandleFunc("/", h.unknown)

	return recoverer(log, accessLog(log, mux))
}
