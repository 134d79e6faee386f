// Package runtime assembles the client-side sessions over a chosen
// backend.
package runtime

import (
	"context"
	"sync"

	"github.com/curio-labs/searchlab-core/internal/core/ports/driving"
)

// Session bundles the comparison and chat flows of one client run.
// Both sides share a backend choice but are otherwise independent.
type Session struct {
	mu     sync.RWMutex
	search driving.SearchSession
	chat   driving.ChatSession
	ready  bool
}

// NewSession creates a session over the given flows
func NewSession(search driving.SearchSession, chat driving.ChatSession) *Session {
	return &Session{
		search: search,
		chat:   chat,
	}
}

// Init loads the chat snapshot and marks the session ready. The search
// flow needs no warm-up.
func (s *Session) Init(ctx context.Context) error {
	if err := s.chat.Init(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return nil
}

// Search returns the comparison flow
func (s *Session) Search() driving.SearchSession {
	return s.search
}

// Chat returns the chat flow
func (s *Session) Chat() driving.ChatSession {
	return s.chat
}

// Ready reports whether Init completed
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}
