// Package session tracks the active conversation session and the credential
// used for document generation.
//
// A session is created when a conversation starts and replaced wholesale
// when a new conversation begins. Export requests read the session at
// request time: the session id scopes the generation call and the credential
// is resolved per request rather than cached, so a replaced session or a
// rotated token takes effect on the next export without restarts.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"archcanvas/pkg/errors"
)

// Session binds a conversation to its generation credential.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a session with a fresh id.
func New(token string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: time.Now(),
	}
}

// Registry holds the active session. There is at most one: starting a new
// conversation replaces the previous session entirely.
type Registry struct {
	mu      sync.RWMutex
	current *Session
}

// NewRegistry creates an empty registry with no active session.
func NewRegistry() *Registry {
	return &Registry{}
}

// Start replaces the active session with a new one and returns it.
func (r *Registry) Start(token string) *Session {
	s := New(token)
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
	return s
}

// Current returns the active session, or nil when no conversation has
// started.
func (r *Registry) Current() *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// End clears the active session.
func (r *Registry) End() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
}

// Token implements the generation client's per-request credential lookup.
// It fails when no session is active, so an export can never run against a
// stale or missing conversation.
func (r *Registry) Token(context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return "", errors.New(errors.ErrCodeInvalidSession, "no active session")
	}
	return r.current.Token, nil
}
