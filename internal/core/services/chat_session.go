package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driving"
)

// fallbackReply is shown in place of an assistant message when the
// backend call fails. The optimistic user entry always stays.
const fallbackReply = "Something went wrong handling your message. Please try again."

var _ driving.ChatSession = (*chatSession)(nil)

// chatSession implements the conversational flow: optimistic insert,
// local state application, backend round trip, reconcile on success or
// fallback reply on failure. Backend failures never surface as errors
// from the send methods.
type chatSession struct {
	backend    driven.ChatBackend
	transcript *ChatTranscript
	logger     *slog.Logger

	mu    sync.RWMutex
	state domain.AccumulatedState
}

// NewChatSession creates a chat session over the given backend
func NewChatSession(backend driven.ChatBackend, logger *slog.Logger) driving.ChatSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &chatSession{
		backend:    backend,
		transcript: NewChatTranscript(),
		logger:     logger,
	}
}

// Init loads the session snapshot. An unreachable backend is an error
// here, unlike in the send path: there is no local state to fall back to
// yet.
func (s *chatSession) Init(ctx context.Context) error {
	snap, err := s.backend.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading chat snapshot: %w", err)
	}

	s.transcript.Replace(snap.Messages)
	s.mu.Lock()
	s.state = snap.State
	s.mu.Unlock()
	return nil
}

func (s *chatSession) SendText(ctx context.Context, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrInvalidInput
	}

	optimistic := s.transcript.AppendOptimistic(domain.KindText, content, domain.Metadata{
		domain.MetaLength: len(content),
	})
	s.applyLocal(optimistic)

	exchange, err := s.backend.SendText(ctx, content)
	s.settle(optimistic, exchange, err)
	return optimistic, nil
}

func (s *chatSession) SendAudio(ctx context.Context, audio []byte, filename string) (*domain.Message, error) {
	if len(audio) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	optimistic := s.transcript.AppendOptimistic(domain.KindAudio, filename, domain.Metadata{
		domain.MetaFileName: filename,
		domain.MetaFileSize: len(audio),
	})
	s.applyLocal(optimistic)

	exchange, err := s.backend.SendAudio(ctx, audio, filename)
	s.settle(optimistic, exchange, err)
	return optimistic, nil
}

func (s *chatSession) SendImage(ctx context.Context, image []byte, filename string) (*domain.Message, error) {
	if len(image) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	optimistic := s.transcript.AppendOptimistic(domain.KindImage, filename, domain.Metadata{
		domain.MetaFileName: filename,
		domain.MetaFileSize: len(image),
	})
	s.applyLocal(optimistic)

	exchange, err := s.backend.SendImage(ctx, image, filename)
	s.settle(optimistic, exchange, err)
	return optimistic, nil
}

func (s *chatSession) SendSnippet(ctx context.Context, content, language string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrInvalidInput
	}

	optimistic := s.transcript.AppendOptimistic(domain.KindSnippet, content, domain.Metadata{
		domain.MetaLanguage:  language,
		domain.MetaLineCount: strings.Count(content, "\n") + 1,
	})
	s.applyLocal(optimistic)

	exchange, err := s.backend.SendSnippet(ctx, content, language)
	s.settle(optimistic, exchange, err)
	return optimistic, nil
}

func (s *chatSession) Messages() []*domain.Message {
	return s.transcript.Messages()
}

func (s *chatSession) State() domain.AccumulatedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Panels recomputes the sidebar projection from the transcript. The
// backend's rendered panels are ignored so local and remote sends render
// through the same code path.
func (s *chatSession) Panels() []domain.Panel {
	return domain.BuildPanels(s.transcript.Messages())
}

// Clear empties the session locally regardless of the backend outcome,
// so a repeated clear is always safe. A backend failure is logged, not
// returned.
func (s *chatSession) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		s.logger.Warn("backend clear failed, cleared locally", "error", err)
	}

	s.transcript.Clear()
	s.mu.Lock()
	s.state = domain.AccumulatedState{}
	s.mu.Unlock()
	return nil
}

// applyLocal folds the optimistic message into the aggregate so the
// sidebar updates before the backend round trip completes
func (s *chatSession) applyLocal(msg *domain.Message) {
	s.mu.Lock()
	s.state = s.state.Apply(msg)
	s.mu.Unlock()
}

// settle reconciles one send against the backend reply. On failure the
// optimistic entry and locally applied state stand, and a fallback
// assistant message is appended.
func (s *chatSession) settle(optimistic *domain.Message, exchange *driven.ChatExchange, err error) {
	if err != nil {
		s.logger.Warn("chat backend call failed",
			"kind", optimistic.Kind,
			"message_id", optimistic.ID,
			"error", err,
		)
		s.transcript.AppendAssistant(&domain.Message{
			Kind:    domain.KindText,
			Content: fallbackReply,
		})
		return
	}

	if len(exchange.UserMetadata) > 0 {
		s.transcript.Reconcile(optimistic.ID, exchange.UserMetadata)
	}
	if exchange.Assistant != nil {
		s.transcript.AppendAssistant(exchange.Assistant)
	}

	// The backend's aggregate is authoritative for the exchange; it
	// already includes this message.
	s.mu.Lock()
	s.state = exchange.State
	s.mu.Unlock()
}
