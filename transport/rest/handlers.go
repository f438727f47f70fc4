package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/validation"
)

const internalError = "Internal server error."

type errorBody struct {
	Error string `json:"Error"`
}

type unreadBody struct {
	ChannelID domain.ChannelID `json:"channel_id"`
	Unread    int              `json:"unread"`
}

func (h *handlers) root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, banner)
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	if h.deps.Monitoring == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if h.deps.CacheStats != nil {
		h.deps.Monitoring.UpdateCache(h.deps.CacheStats())
	}
	writeJSON(w, http.StatusOK, h.deps.Monitoring.GetLatest())
}

func (h *handlers) unknown(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.RequestURI())
	writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("Invalid method or endpoint: %s %s", r.Method, url)})
}

func (h *handlers) userChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.deps.Users.Channels(r.Context(), domain.Token(r.PathValue("userId")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(channels))
}

func (h *handlers) renameUser(w http.ResponseWriter, r *http.Request) {
	var body validation.RenameUserRequest
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.deps.Users.Rename(r.Context(), domain.Token(r.PathValue("userId")), body); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) markRead(w http.ResponseWriter, r *http.Request) {
	channelID, err := channelParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	unread, err := h.deps.Users.MarkRead(r.Context(), domain.Token(r.PathValue("userId")), channelID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadBody{ChannelID: channelID, Unread: unread})
}

func (h *handlers) createChannel(w http.ResponseWriter, r *http.Request) {
	var body validation.CreateChannelRequest
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	channel, err := h.deps.Channels.Create(r.Context(), body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, channel)
}

func (h *handlers) channelUsers(w http.ResponseWriter, r *http.Request) {
	channelID, err := channelParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	users, err := h.deps.Channels.Members(r.Context(), channelID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}

func (h *handlers) channelMessages(w http.ResponseWriter, r *http.Request) {
	channelID, err := channelParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	messages, err := h.deps.Channels.Messages(r.Context(), channelID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(messages))
}

func (h *handlers) addMember(w http.ResponseWriter, r *http.Request) {
	channelID, err := channelParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body validation.AddMemberRequest
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.deps.Channels.AddMember(r.Context(), channelID, body); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) removeMember(w http.ResponseWriter, r *http.Request) {
	channelID, err := channelParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.deps.Channels.RemoveMember(r.Context(), channelID, domain.Token(r.PathValue("userId"))); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail answers with the status carried by err. Server-side failures are
// logged and hidden from the client.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorBody{Error: internalError})
		return
	}
	h.log.Debug("Request refused", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func channelParam(r *http.Request) (domain.ChannelID, error) {
	raw := r.PathValue("channelId")
	channelID, err := domain.ParseChannelID(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: channel id %q is not a number", errors.ErrInvalidRequest, raw)
	}
	return channelID, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: body is not valid JSON", errors.ErrInvalidRequest)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
