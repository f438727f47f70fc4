package runtime

import (
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
)

// Registry maps a token to the live session currently speaking for it.
// One token has at most one session: the last registration wins.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.Token]contract.Session // map token -> live session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.Token]contract.Session),
	}
}

// Register stores the session under its token and returns the session it
// replaced, nil if the token had none. The replaced session is left open.
func (r *Registry) Register(session contract.Session) contract.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.sessions[session.Token()]
	r.sessions[session.Token()] = session
	return previous
}

// Unregister removes the entry only while it still holds this session.
// A session replaced by a newer registration leaves the registry untouched.
func (r *Registry) Unregister(session contract.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[session.Token()]
	if !ok || current != session {
		return false
	}
	delete(r.sessions, session.Token())
	return true
}

func (r *Registry) Lookup(token domain.Token) (contract.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	return session, ok
}

// IsCurrent tells whether session is the one registered for its token.
func (r *Registry) IsCurrent(session contract.Session) bool {
	current, ok := r.Lookup(session.Token())
	return ok && current == session
}

// All returns a snapshot of every registered session.
func (r *Registry) All() []contract.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]contract.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		all = append(all, session)
	}
	return all
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
