package services

import (
	"context"
	"errors"
	"testing"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven/mocks"
)

func TestChatSession_Init(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	backend.SetSnapshot([]*domain.Message{
		{ID: "m1", Kind: domain.KindText, Content: "earlier", Role: domain.RoleUser},
	}, domain.AccumulatedState{MessageCount: 1, TextCount: 1, Keywords: []string{"earlier"}})

	s := NewChatSession(backend, discardLogger())
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msgs := s.Messages(); len(msgs) != 1 || msgs[0].ID != "m1" {
		t.Errorf("expected snapshot messages loaded, got %d", len(msgs))
	}
	if state := s.State(); state.MessageCount != 1 || state.TextCount != 1 {
		t.Errorf("expected snapshot state adopted, got %+v", state)
	}
}

func TestChatSession_Init_BackendError(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	backend.SetSnapshotError(errors.New("connection refused"))

	s := NewChatSession(backend, discardLogger())
	if err := s.Init(context.Background()); err == nil {
		t.Fatal("expected init to fail when the snapshot is unavailable")
	}
}

func TestChatSession_SendText(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	backend.SetReply("Noted. I updated the conversation state.")

	s := NewChatSession(backend, discardLogger())
	msg, err := s.SendText(context.Background(), "Show me the latest diamond rings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Role != domain.RoleUser || msg.Kind != domain.KindText {
		t.Errorf("expected optimistic user text entry, got %+v", msg)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected user + assistant messages, got %d", len(msgs))
	}
	if msgs[1].Role != domain.RoleAssistant || msgs[1].Content != "Noted. I updated the conversation state." {
		t.Errorf("unexpected assistant message %+v", msgs[1])
	}

	state := s.State()
	if state.MessageCount != 1 || state.TextCount != 1 {
		t.Errorf("expected counts updated, got %+v", state)
	}
	want := []string{"show", "latest", "diamond", "rings"}
	if len(state.Keywords) != len(want) {
		t.Fatalf("expected keywords %v, got %v", want, state.Keywords)
	}
	for i, kw := range want {
		if state.Keywords[i] != kw {
			t.Errorf("keyword %d: expected %q, got %q", i, kw, state.Keywords[i])
		}
	}
}

func TestChatSession_SendText_BackendFailure(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	backend.SetSendError(errors.New("gateway timeout"))

	s := NewChatSession(backend, discardLogger())
	msg, err := s.SendText(context.Background(), "hello gold bracelets")
	if err != nil {
		t.Fatalf("expected backend failure to be absorbed, got %v", err)
	}
	if msg == nil {
		t.Fatal("expected the optimistic entry back")
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected user entry plus fallback reply, got %d messages", len(msgs))
	}
	if msgs[0].ID != msg.ID {
		t.Error("expected optimistic entry to stay in the transcript")
	}
	if msgs[1].Role != domain.RoleAssistant || msgs[1].Content != fallbackReply {
		t.Errorf("expected fallback assistant message, got %+v", msgs[1])
	}

	// The locally applied state stands when the backend is unreachable
	state := s.State()
	if state.MessageCount != 1 || state.TextCount != 1 {
		t.Errorf("expected local state application, got %+v", state)
	}
}

func TestChatSession_SendAudio_ReconcilesMetadata(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	backend.SetUserMetadata(domain.Metadata{domain.MetaTranscription: "show me rings"})

	s := NewChatSession(backend, discardLogger())
	msg, err := s.SendAudio(context.Background(), []byte("opus"), "clip.webm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := s.Messages()[0]
	if got.ID != msg.ID {
		t.Fatal("expected the optimistic entry first")
	}
	if v, _ := got.Metadata.String(domain.MetaTranscription); v != "show me rings" {
		t.Errorf("expected transcription reconciled into user entry, got %v", got.Metadata)
	}
	if v, _ := got.Metadata.String(domain.MetaFileName); v != "clip.webm" {
		t.Errorf("expected optimistic metadata preserved, got %v", got.Metadata)
	}

	state := s.State()
	if state.AudioCount != 1 {
		t.Errorf("expected audio counted, got %+v", state)
	}
	if len(state.Topics) != 1 || state.Topics[0] != domain.TopicVoice {
		t.Errorf("expected voice topic, got %v", state.Topics)
	}
}

func TestChatSession_SendSnippet_TracksLanguage(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	s := NewChatSession(backend, discardLogger())

	msg, err := s.SendSnippet(context.Background(), "def search(q):\n    return q", "python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := msg.Metadata.String(domain.MetaLanguage); v != "python" {
		t.Errorf("expected language metadata, got %v", msg.Metadata)
	}
	if lc, ok := msg.Metadata[domain.MetaLineCount].(int); !ok || lc != 2 {
		t.Errorf("expected line_count 2, got %v", msg.Metadata[domain.MetaLineCount])
	}

	state := s.State()
	if state.SnippetCount != 1 {
		t.Errorf("expected snippet counted, got %+v", state)
	}
	if len(state.CodeLanguages) != 1 || state.CodeLanguages[0] != "python" {
		t.Errorf("expected python tracked once, got %v", state.CodeLanguages)
	}
}

func TestChatSession_EmptyInputsRejected(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	s := NewChatSession(backend, discardLogger())

	if _, err := s.SendText(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := s.SendAudio(context.Background(), nil, "clip.webm"); !errors.Is(err, domain.ErrEmptyPayload) {
		t.Errorf("expected ErrEmptyPayload, got %v", err)
	}
	if _, err := s.SendImage(context.Background(), nil, "photo.png"); !errors.Is(err, domain.ErrEmptyPayload) {
		t.Errorf("expected ErrEmptyPayload, got %v", err)
	}
	if _, err := s.SendSnippet(context.Background(), "", "go"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	if len(s.Messages()) != 0 {
		t.Errorf("expected no messages for rejected input, got %d", len(s.Messages()))
	}
	if len(backend.Calls()) != 0 {
		t.Errorf("expected no backend calls, got %d", len(backend.Calls()))
	}
}

func TestChatSession_ClearIsIdempotent(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	s := NewChatSession(backend, discardLogger())

	if _, err := s.SendText(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Messages()) != 0 {
		t.Errorf("expected empty transcript after clear, got %d", len(s.Messages()))
	}
	if state := s.State(); state.MessageCount != 0 {
		t.Errorf("expected zero state after clear, got %+v", state)
	}

	// A second clear and a clear against a failing backend still succeed
	if err := s.Clear(context.Background()); err != nil {
		t.Errorf("expected repeated clear to succeed, got %v", err)
	}
	backend.SetClearError(errors.New("unreachable"))
	if err := s.Clear(context.Background()); err != nil {
		t.Errorf("expected clear to absorb backend failure, got %v", err)
	}
	if backend.ClearCount() != 3 {
		t.Errorf("expected 3 backend clear attempts, got %d", backend.ClearCount())
	}
}

func TestChatSession_Panels(t *testing.T) {
	backend := mocks.NewMockChatBackend()
	s := NewChatSession(backend, discardLogger())

	if panels := s.Panels(); panels != nil {
		t.Errorf("expected no panels for empty session, got %v", panels)
	}

	if _, err := s.SendText(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	panels := s.Panels()
	if len(panels) != 1 || panels[0].Title != "History" {
		t.Fatalf("expected one History panel, got %+v", panels)
	}
}
