package driven

import (
	"context"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

// SearchBackend issues one ranking method's call for a query payload.
// Implementations exist for the HTTP API and for the in-process engine
// (local simulation); the dispatcher treats both identically.
type SearchBackend interface {
	// SearchText runs one method over a text query
	SearchText(ctx context.Context, method domain.Method, query string) (*domain.MethodResponse, error)

	// SearchAudio runs one method over a recorded audio payload.
	// The response carries the transcription the backend derived.
	SearchAudio(ctx context.Context, method domain.Method, audio []byte, filename string) (*domain.MethodResponse, error)

	// SearchImage runs one method over an image payload.
	// The response carries the detected feature labels.
	SearchImage(ctx context.Context, method domain.Method, image []byte, filename string) (*domain.MethodResponse, error)
}
