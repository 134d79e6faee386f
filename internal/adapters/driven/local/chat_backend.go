package local

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
	"github.com/google/uuid"
)

// Verify interface compliance
var _ driven.ChatBackend = (*ChatBackend)(nil)

const snapshotLimit = 50

// ChatBackend implements driven.ChatBackend over a StateStore. It is
// the same conversation logic the HTTP demo server exposes, reachable
// in-process.
type ChatBackend struct {
	engine *Engine
	store  driven.StateStore

	// minDelay/maxDelay bound the imitated processing time before each
	// reply; both zero in tests
	minDelay time.Duration
	maxDelay time.Duration

	now   func() time.Time
	newID func() string
}

// NewChatBackend creates a store-backed ChatBackend
func NewChatBackend(engine *Engine, store driven.StateStore, minDelay, maxDelay time.Duration) *ChatBackend {
	return &ChatBackend{
		engine:   engine,
		store:    store,
		minDelay: minDelay,
		maxDelay: maxDelay,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Snapshot returns the last messages and the current aggregate
func (b *ChatBackend) Snapshot(ctx context.Context) (*driven.ChatSnapshot, error) {
	state, err := b.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading chat state: %w", err)
	}

	messages := state.Messages
	if len(messages) > snapshotLimit {
		messages = messages[len(messages)-snapshotLimit:]
	}
	return &driven.ChatSnapshot{
		State:    state.State,
		Messages: messages,
		Panels:   domain.BuildPanels(state.Messages),
	}, nil
}

// SendText accepts a plain text message
func (b *ChatBackend) SendText(ctx context.Context, content string) (*driven.ChatExchange, error) {
	return b.accept(ctx, domain.KindText, content, domain.Metadata{
		domain.MetaLength: len(content),
	})
}

// SendAudio transcribes the clip and accepts it as an audio message.
// The transcription becomes both the message content and metadata the
// caller reconciles into its optimistic entry.
func (b *ChatBackend) SendAudio(ctx context.Context, audio []byte, filename string) (*driven.ChatExchange, error) {
	transcription := b.engine.Transcribe(audio)
	return b.accept(ctx, domain.KindAudio, transcription, domain.Metadata{
		domain.MetaTranscription: transcription,
		domain.MetaFileName:      filename,
		domain.MetaFileSize:      len(audio),
	})
}

// SendImage detects features and accepts the image message
func (b *ChatBackend) SendImage(ctx context.Context, image []byte, filename string) (*driven.ChatExchange, error) {
	features := b.engine.AnalyzeImage(image)
	return b.accept(ctx, domain.KindImage, strings.Join(features, ", "), domain.Metadata{
		domain.MetaFeatures: features,
		domain.MetaFileName: filename,
		domain.MetaFileSize: len(image),
	})
}

// SendSnippet accepts a code snippet message
func (b *ChatBackend) SendSnippet(ctx context.Context, content, language string) (*driven.ChatExchange, error) {
	return b.accept(ctx, domain.KindSnippet, content, domain.Metadata{
		domain.MetaLanguage:  language,
		domain.MetaLineCount: strings.Count(content, "\n") + 1,
	})
}

// Clear resets the stored conversation
func (b *ChatBackend) Clear(ctx context.Context) error {
	return b.store.Clear(ctx)
}

// accept appends the user message and a generated reply, folds the user
// message into the aggregate, and persists the result
func (b *ChatBackend) accept(ctx context.Context, kind domain.MessageKind, content string, metadata domain.Metadata) (*driven.ChatExchange, error) {
	if d := b.engine.Jitter(b.minDelay, b.maxDelay); d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	state, err := b.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading chat state: %w", err)
	}

	user := &domain.Message{
		ID:        b.newID(),
		Kind:      kind,
		Content:   content,
		Timestamp: b.now(),
		Role:      domain.RoleUser,
		Metadata:  metadata,
	}
	assistant := &domain.Message{
		ID:        b.newID(),
		Kind:      domain.KindText,
		Content:   replyFor(kind),
		Timestamp: b.now(),
		Role:      domain.RoleAssistant,
	}

	state.Messages = append(state.Messages, user, assistant)
	state.State = state.State.Apply(user)

	if err := b.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving chat state: %w", err)
	}

	return &driven.ChatExchange{
		Assistant:    assistant,
		UserMetadata: metadata.Clone(),
		State:        state.State,
		Panels:       domain.BuildPanels(state.Messages),
	}, nil
}

// replyFor is a total function of the message kind, so replays of the
// same inputs produce the same transcript
func replyFor(kind domain.MessageKind) string {
	if kind == domain.KindText {
		return "Received your message. Updated the conversation state."
	}
	return "Message received."
}
