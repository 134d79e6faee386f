// Package memory provides an in-process StateStore for development and
// tests.
package memory

import (
	"context"
	"sync"

	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.StateStore = (*StateStore)(nil)

// StateStore keeps the chat state in memory. State does not survive a
// restart; use the Redis or PostgreSQL store for that.
type StateStore struct {
	mu    sync.RWMutex
	state *driven.ChatState
}

// NewStateStore creates an empty in-memory StateStore
func NewStateStore() *StateStore {
	return &StateStore{}
}

// Load returns the stored state, or an empty state when none was saved
func (s *StateStore) Load(ctx context.Context) (*driven.ChatState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return &driven.ChatState{}, nil
	}
	out := &driven.ChatState{State: s.state.State.Clone()}
	for _, m := range s.state.Messages {
		out.Messages = append(out.Messages, m.Clone())
	}
	return out, nil
}

// Save replaces the stored state
func (s *StateStore) Save(ctx context.Context, state *driven.ChatState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := &driven.ChatState{State: state.State.Clone()}
	for _, m := range state.Messages {
		cp.Messages = append(cp.Messages, m.Clone())
	}
	s.state = cp
	return nil
}

// Clear removes the stored state
func (s *StateStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}

// Ping always succeeds
func (s *StateStore) Ping(ctx context.Context) error {
	return nil
}
