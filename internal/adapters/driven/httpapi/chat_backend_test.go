package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

func TestChatBackend_Snapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/state" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]any{
				{"id": "m1", "type": "text", "content": "hi", "role": "user"},
			},
			"state": map[string]any{
				"message_count": 1,
				"text_count":    1,
				"keywords":      []string{"rings"},
			},
		})
	}))
	defer srv.Close()

	backend := NewChatBackend(DefaultConfig(srv.URL))
	snap, err := backend.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Messages) != 1 || snap.Messages[0].Kind != domain.KindText {
		t.Errorf("unexpected messages %+v", snap.Messages)
	}
	if snap.State.MessageCount != 1 || len(snap.State.Keywords) != 1 {
		t.Errorf("unexpected state %+v", snap.State)
	}
}

func TestChatBackend_Snapshot_LegacyStateKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages":    []map[string]any{},
			"accumulated": map[string]any{"message_count": 3},
		})
	}))
	defer srv.Close()

	backend := NewChatBackend(DefaultConfig(srv.URL))
	snap, err := backend.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State.MessageCount != 3 {
		t.Errorf("expected legacy key decoded, got %+v", snap.State)
	}
}

func TestChatBackend_SendText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/text" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Content string `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Content != "hello" {
			t.Errorf("expected content forwarded, got %q", req.Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"id": "a1", "type": "text", "content": "hey there", "role": "assistant",
			},
			"state": map[string]any{"message_count": 2, "text_count": 2},
		})
	}))
	defer srv.Close()

	backend := NewChatBackend(DefaultConfig(srv.URL))
	exchange, err := backend.SendText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exchange.Assistant == nil || exchange.Assistant.Content != "hey there" {
		t.Errorf("unexpected assistant %+v", exchange.Assistant)
	}
	if exchange.State.MessageCount != 2 {
		t.Errorf("unexpected state %+v", exchange.State)
	}
}

func TestChatBackend_SendSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Content  string `json:"content"`
			Language string `json:"language"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Language != "go" {
			t.Errorf("expected language forwarded, got %q", req.Language)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"type": "text", "content": "nice snippet", "role": "assistant"},
			"user_metadata": map[string]any{
				"language": "go", "line_count": 1,
			},
			"state": map[string]any{"message_count": 2, "snippet_count": 1, "code_languages": []string{"go"}},
		})
	}))
	defer srv.Close()

	backend := NewChatBackend(DefaultConfig(srv.URL))
	exchange, err := backend.SendSnippet(context.Background(), `fmt.Println("hi")`, "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := exchange.UserMetadata.String(domain.MetaLanguage); v != "go" {
		t.Errorf("expected user metadata decoded, got %+v", exchange.UserMetadata)
	}
	if len(exchange.State.CodeLanguages) != 1 {
		t.Errorf("unexpected state %+v", exchange.State)
	}
}

func TestChatBackend_Clear(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/clear" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	backend := NewChatBackend(DefaultConfig(srv.URL))
	if err := backend.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected clear endpoint to be called")
	}
}
