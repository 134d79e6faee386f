package driven

import (
	"context"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

// ChatState is the server-side conversation snapshot persisted between
// requests: the full transcript plus the accumulated aggregate.
type ChatState struct {
	Messages []*domain.Message       `json:"messages"`
	State    domain.AccumulatedState `json:"state"`
}

// StateStore persists the demo backend's chat state.
// In-memory by default; Redis or PostgreSQL when configured.
type StateStore interface {
	// Load returns the current state; an empty state when none was saved
	Load(ctx context.Context) (*ChatState, error)

	// Save replaces the stored state
	Save(ctx context.Context, state *ChatState) error

	// Clear removes the stored state
	Clear(ctx context.Context) error

	// Ping verifies the store is available
	Ping(ctx context.Context) error
}
