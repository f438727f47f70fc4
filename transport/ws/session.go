package ws

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Session is one live websocket connection. Events are encoded on Send and
// written by the write pump in the order they were queued.
type Session struct {
	log       *slog.Logger
	token     domain.Token
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(log *slog.Logger, token domain.Token, conn *websocket.Conn, bufferSize int) *Session {
	return &Session{
		log:   log.With("user", token),
		token: token,
		conn:  conn,
		send:  make(chan []byte, bufferSize),
		done:  make(chan struct{}),
	}
}

func (s *Session) Token() domain.Token {
	return s.token
}

// Send queues evt without blocking. A client too slow to drain its buffer
// is closed.
func (s *Session) Send(evt event.Outbound) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	frame, err := event.Encode(evt)
	if err != nil {
		s.log.Error("Failed to encode event", "event", evt.Name(), "error", err)
		return false
	}
	select {
	case s.send <- frame:
		return true
	default:
		s.log.Warn("Send buffer full, closing session", "capacity", cap(s.send))
		s.Close()
		return false
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// readPump decodes frames until the connection fails, then disconnects
// the session.
func (s *Session) readPump(ctx context.Context, orchestrator contract.IOrchestrator, maxMessageSize int64) {
	defer func() {
		orchestrator.Disconnect(s)
		s.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.log.Warn("Failed to set read deadline", "error", err)
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			s.logReadError(err)
			return
		}
		evt, err := event.Decode(frame)
		if err != nil {
			s.log.Debug("Dropping frame", "error", err)
			continue
		}
		orchestrator.Dispatch(ctx, s, evt)
	}
}

func (s *Session) logReadError(err error) {
	switch {
	case stderrors.Is(err, websocket.ErrReadLimit):
		s.log.Warn("Frame exceeded maximum size")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		s.log.Debug("Client closed the connection")
	case stderrors.Is(err, io.EOF), stderrors.Is(err, io.ErrUnexpectedEOF):
		s.log.Debug("Connection dropped", "error", err)
	default:
		s.log.Debug("Read failed", "error", err)
	}
}

// writePump owns every write on the connection. It closes the connection
// when the session is closed or a write fails.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame := <-s.send:
			if !s.write(websocket.TextMessage, frame) {
				return
			}
		case <-ticker.C:
			if !s.write(websocket.PingMessage, nil) {
				return
			}
		case <-s.done:
			s.flush()
			s.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes what was queued before the session closed.
func (s *Session) flush() {
	for {
		select {
		case frame := <-s.send:
			if !s.write(websocket.TextMessage, frame) {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) write(messageType int, data []byte) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.log.Debug("Failed to set write deadline", "error", err)
		return false
	}
	if err := s.conn.WriteMessage(messageType, data); err != nil {
		s.log.Debug("Write failed", "error", err)
		return false
	}
	return true
}
