package httpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChatBackend = (*ChatBackend)(nil)

// ChatBackend implements driven.ChatBackend against the demo service's
// chat endpoints
type ChatBackend struct {
	*client
}

// NewChatBackend creates an HTTP-backed ChatBackend
func NewChatBackend(cfg Config) *ChatBackend {
	return &ChatBackend{client: newClient(cfg)}
}

// snapshotPayload tolerates both field names the service has used for
// the aggregate ("state" and the older "accumulated")
type snapshotPayload struct {
	Messages    []*domain.Message `json:"messages"`
	State       json.RawMessage   `json:"state"`
	Accumulated json.RawMessage   `json:"accumulated"`
	Panels      []domain.Panel    `json:"panels"`
}

// Snapshot fetches the initial session state
func (b *ChatBackend) Snapshot(ctx context.Context) (*driven.ChatSnapshot, error) {
	var payload snapshotPayload
	if err := b.getJSON(ctx, "/api/chat/state", &payload); err != nil {
		return nil, fmt.Errorf("chat snapshot: %w", err)
	}

	snap := &driven.ChatSnapshot{
		Messages: payload.Messages,
		Panels:   payload.Panels,
	}

	raw := payload.State
	if len(raw) == 0 {
		raw = payload.Accumulated
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snap.State); err != nil {
			return nil, fmt.Errorf("chat snapshot: decoding state: %w", err)
		}
	}
	return snap, nil
}

type textMessage struct {
	Content string `json:"content"`
}

type snippetMessage struct {
	Content  string `json:"content"`
	Language string `json:"language"`
}

// SendText submits a plain text message
func (b *ChatBackend) SendText(ctx context.Context, content string) (*driven.ChatExchange, error) {
	var out driven.ChatExchange
	if err := b.postJSON(ctx, "/api/chat/text", textMessage{Content: content}, &out); err != nil {
		return nil, fmt.Errorf("chat text: %w", err)
	}
	return &out, nil
}

// SendAudio submits a recorded audio message
func (b *ChatBackend) SendAudio(ctx context.Context, audio []byte, filename string) (*driven.ChatExchange, error) {
	var out driven.ChatExchange
	if err := b.postFile(ctx, "/api/chat/audio", "audio", filename, audio, &out); err != nil {
		return nil, fmt.Errorf("chat audio: %w", err)
	}
	return &out, nil
}

// SendImage submits an image message
func (b *ChatBackend) SendImage(ctx context.Context, image []byte, filename string) (*driven.ChatExchange, error) {
	var out driven.ChatExchange
	if err := b.postFile(ctx, "/api/chat/image", "image", filename, image, &out); err != nil {
		return nil, fmt.Errorf("chat image: %w", err)
	}
	return &out, nil
}

// SendSnippet submits a code snippet with its language tag
func (b *ChatBackend) SendSnippet(ctx context.Context, content, language string) (*driven.ChatExchange, error) {
	var out driven.ChatExchange
	if err := b.postJSON(ctx, "/api/chat/snippet", snippetMessage{Content: content, Language: language}, &out); err != nil {
		return nil, fmt.Errorf("chat snippet: %w", err)
	}
	return &out, nil
}

// Clear resets the backend conversation
func (b *ChatBackend) Clear(ctx context.Context) error {
	if err := b.postJSON(ctx, "/api/chat/clear", struct{}{}, nil); err != nil {
		return fmt.Errorf("chat clear: %w", err)
	}
	return nil
}
