package driven

import (
	"context"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

// ChatSnapshot is the session-start state fetched from the backend
type ChatSnapshot struct {
	State    domain.AccumulatedState `json:"state"`
	Messages []*domain.Message       `json:"messages"`
	Panels   []domain.Panel          `json:"panels,omitempty"`
}

// ChatExchange is the backend's reply to one sent message
type ChatExchange struct {
	// Assistant is the generated reply, nil when the backend produced none
	Assistant *domain.Message `json:"message"`

	// UserMetadata is merged into the optimistic user entry once the
	// backend has derived it (transcription, detected features, ...)
	UserMetadata domain.Metadata `json:"user_metadata,omitempty"`

	// State is the authoritative accumulated state after this exchange
	State domain.AccumulatedState `json:"state"`

	// Panels is the rendered sidebar projection, when the backend sends one
	Panels []domain.Panel `json:"panels,omitempty"`
}

// ChatBackend handles the conversational flow for all four modalities
type ChatBackend interface {
	// Snapshot fetches the initial session state
	Snapshot(ctx context.Context) (*ChatSnapshot, error)

	// SendText submits a plain text message
	SendText(ctx context.Context, content string) (*ChatExchange, error)

	// SendAudio submits a recorded audio message
	SendAudio(ctx context.Context, audio []byte, filename string) (*ChatExchange, error)

	// SendImage submits an image message
	SendImage(ctx context.Context, image []byte, filename string) (*ChatExchange, error)

	// SendSnippet submits a code snippet with its language tag
	SendSnippet(ctx context.Context, content, language string) (*ChatExchange, error)

	// Clear resets the backend conversation to the zero state
	Clear(ctx context.Context) error
}
