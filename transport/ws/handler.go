// Package ws serves the websocket endpoint: handshake authentication,
// one read pump and one write pump per session.
package ws

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"

	"github.com/gorilla/websocket"
)

type Config struct {
	AllowedOrigins []string
	MaxMessageSize int64
	SendBufferSize int
}

type Handler struct {
	log          *slog.Logger
	base         context.Context
	orchestrator contract.IOrchestrator
	upgrader     websocket.Upgrader
	config       Config
}

// NewHandler builds the upgrade handler. Sessions are closed when base is
// cancelled.
func NewHandler(base context.Context, log *slog.Logger, orchestrator contract.IOrchestrator, config Config) *Handler {
	origins := newOriginPolicy(log, config.AllowedOrigins)
	h := &Handler{
		log:          log,
		base:         base,
		orchestrator: orchestrator,
		config:       config,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     origins.check,
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	if err := h.orchestrator.Authenticate(r.Context(), token); err != nil {
		h.reject(conn, err)
		return
	}

	session := newSession(h.log, token, conn, h.config.SendBufferSize)
	stop := context.AfterFunc(h.base, session.Close)
	defer stop()

	go session.writePump()
	h.orchestrator.Connect(r.Context(), session)
	session.readPump(r.Context(), h.orchestrator, h.config.MaxMessageSize)
}

// reject tells the client why the handshake failed and closes the socket.
func (h *Handler) reject(conn *websocket.Conn, err error) {
	reason := errors.ErrAuthUnknown
	if stderrors.Is(err, errors.ErrAuthMissing) {
		reason = errors.ErrAuthMissing
	}
	h.log.Debug("Handshake rejected", "reason", reason)

	defer conn.Close()
	frame, encodeErr := event.Encode(event.Error(reason.Error()))
	if encodeErr != nil {
		return
	}
	deadline := time.Now().Add(writeWait)
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason.Error()), deadline)
}

// TokenFromRequest reads the bearer token, falling back to the token query
// parameter browsers can set.
func TokenFromRequest(r *http.Request) domain.Token {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return domain.Token(strings.TrimSpace(token))
		}
	}
	return domain.Token(strings.TrimSpace(r.URL.Query().Get("token")))
}

type originPolicy struct {
	log      *slog.Logger
	allowAll bool
	allowed  map[string]struct{}
}

// newOriginPolicy accepts every origin when none is configured or "*" is
// listed.
func newOriginPolicy(log *slog.Logger, origins []string) originPolicy {
	policy := originPolicy{log: log, allowed: make(map[string]struct{})}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "":
		case origin == "*":
			policy.allowAll = true
		default:
			normalized, ok := normalizeOrigin(origin)
			if !ok {
				log.Warn("Ignoring invalid origin", "origin", origin)
				continue
			}
			policy.allowed[normalized] = struct{}{}
		}
	}
	if len(policy.allowed) == 0 {
		policy.allowAll = true
	}
	return policy
}

// check lets through clients that send no Origin header.
func (p originPolicy) check(r *http.Request) bool {
	header := r.Header.Get("Origin")
	if p.allowAll || header == "" {
		return true
	}
	normalized, ok := normalizeOrigin(header)
	if ok {
		if _, exists := p.allowed[normalized]; exists {
			return true
		}
	}
	p.log.Info("Blocked websocket connection from disallowed origin", "origin", header)
	return false
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
