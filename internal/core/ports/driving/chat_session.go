package driving

import (
	"context"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

// ChatSession drives the conversational flow with the accumulated-state
// sidebar. Every send inserts the user message optimistically before the
// backend round trip; backend failures surface as a fallback assistant
// message, never as a session error.
type ChatSession interface {
	// Init loads the session snapshot from the backend
	Init(ctx context.Context) error

	// SendText sends a plain text message; returns the optimistic entry
	SendText(ctx context.Context, content string) (*domain.Message, error)

	// SendAudio sends a recorded audio message
	SendAudio(ctx context.Context, audio []byte, filename string) (*domain.Message, error)

	// SendImage sends an image message
	SendImage(ctx context.Context, image []byte, filename string) (*domain.Message, error)

	// SendSnippet sends a code snippet with its language tag
	SendSnippet(ctx context.Context, content, language string) (*domain.Message, error)

	// Messages returns the transcript in append order
	Messages() []*domain.Message

	// State returns the current accumulated aggregate
	State() domain.AccumulatedState

	// Panels returns the sidebar projection of the current session
	Panels() []domain.Panel

	// Clear empties the transcript and aggregate, locally and remotely
	Clear(ctx context.Context) error
}
