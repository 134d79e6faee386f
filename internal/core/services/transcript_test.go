package services

import (
	"testing"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

func TestChatTranscript_OptimisticInsertAndReconcile(t *testing.T) {
	tr := NewChatTranscript()

	msg := tr.AppendOptimistic(domain.KindAudio, "clip.webm", domain.Metadata{
		domain.MetaFileName: "clip.webm",
	})
	if msg.Role != domain.RoleUser {
		t.Errorf("expected user role, got %s", msg.Role)
	}
	if msg.ID == "" || msg.Timestamp.IsZero() {
		t.Error("expected id and timestamp assigned on insert")
	}

	if !tr.Reconcile(msg.ID, domain.Metadata{domain.MetaTranscription: "show me rings"}) {
		t.Fatal("expected reconcile to find the optimistic entry")
	}

	got := tr.Messages()[0]
	if v, _ := got.Metadata.String(domain.MetaTranscription); v != "show me rings" {
		t.Errorf("expected transcription merged, got %v", got.Metadata)
	}
	if v, _ := got.Metadata.String(domain.MetaFileName); v != "clip.webm" {
		t.Errorf("expected original metadata preserved, got %v", got.Metadata)
	}
	if tr.Len() != 1 {
		t.Errorf("expected reconcile in place, got %d messages", tr.Len())
	}
}

func TestChatTranscript_ReconcileAfterClearIsNoOp(t *testing.T) {
	tr := NewChatTranscript()
	msg := tr.AppendOptimistic(domain.KindText, "hello", nil)
	tr.Clear()

	if tr.Reconcile(msg.ID, domain.Metadata{domain.MetaLength: 5}) {
		t.Error("expected reconcile for cleared entry to be dropped")
	}
	if tr.Len() != 0 {
		t.Errorf("expected empty transcript, got %d", tr.Len())
	}
}

func TestChatTranscript_AppendAssistantFillsDefaults(t *testing.T) {
	tr := NewChatTranscript()

	got := tr.AppendAssistant(&domain.Message{
		Kind:    domain.KindText,
		Content: "here you go",
		Role:    domain.RoleUser, // backend bugs must not flip ownership
	})
	if got.Role != domain.RoleAssistant {
		t.Errorf("expected assistant role forced, got %s", got.Role)
	}
	if got.ID == "" || got.Timestamp.IsZero() {
		t.Error("expected missing id and timestamp filled in")
	}
}

func TestChatTranscript_ReplaceSnapshot(t *testing.T) {
	tr := NewChatTranscript()
	tr.AppendOptimistic(domain.KindText, "stale", nil)

	snapshot := []*domain.Message{
		{ID: "m1", Kind: domain.KindText, Content: "hi", Role: domain.RoleUser},
		{ID: "m2", Kind: domain.KindText, Content: "hello", Role: domain.RoleAssistant},
	}
	tr.Replace(snapshot)

	msgs := tr.Messages()
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Fatalf("expected snapshot to replace transcript, got %d messages", len(msgs))
	}

	// The transcript must own its copies
	snapshot[0].Content = "mutated"
	if tr.Messages()[0].Content != "hi" {
		t.Error("snapshot mutation leaked into transcript")
	}
}
