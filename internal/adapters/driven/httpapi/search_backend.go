package httpapi

import (
	"context"
	"fmt"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchBackend = (*SearchBackend)(nil)

// SearchBackend implements driven.SearchBackend against the demo
// service's per-method search endpoints
type SearchBackend struct {
	*client
}

// NewSearchBackend creates an HTTP-backed SearchBackend
func NewSearchBackend(cfg Config) *SearchBackend {
	return &SearchBackend{client: newClient(cfg)}
}

type searchRequest struct {
	Query string `json:"query"`
}

// SearchText runs one method against a text query
func (b *SearchBackend) SearchText(ctx context.Context, method domain.Method, query string) (*domain.MethodResponse, error) {
	if !method.Valid() {
		return nil, domain.ErrUnknownMethod
	}

	var out domain.MethodResponse
	path := fmt.Sprintf("/api/search/%s", method)
	if err := b.postJSON(ctx, path, searchRequest{Query: query}, &out); err != nil {
		return nil, fmt.Errorf("search %s: %w", method, err)
	}
	out.Method = method
	return &out, nil
}

// SearchAudio runs one method against a recorded audio query. The
// response carries the transcription the service derived.
func (b *SearchBackend) SearchAudio(ctx context.Context, method domain.Method, audio []byte, filename string) (*domain.MethodResponse, error) {
	if !method.Valid() {
		return nil, domain.ErrUnknownMethod
	}

	var out domain.MethodResponse
	path := fmt.Sprintf("/api/search/%s/audio", method)
	if err := b.postFile(ctx, path, "audio", filename, audio, &out); err != nil {
		return nil, fmt.Errorf("audio search %s: %w", method, err)
	}
	out.Method = method
	return &out, nil
}

// SearchImage runs one method against an image query. The response
// carries the features the service detected.
func (b *SearchBackend) SearchImage(ctx context.Context, method domain.Method, image []byte, filename string) (*domain.MethodResponse, error) {
	if !method.Valid() {
		return nil, domain.ErrUnknownMethod
	}

	var out domain.MethodResponse
	path := fmt.Sprintf("/api/search/%s/image", method)
	if err := b.postFile(ctx, path, "image", filename, image, &out); err != nil {
		return nil, fmt.Errorf("image search %s: %w", method, err)
	}
	out.Method = method
	return &out, nil
}
