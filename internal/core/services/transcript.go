package services

import (
	"sync"
	"time"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/google/uuid"
)

// ChatTranscript is the ordered, append-only message list of one chat
// session. User messages are inserted optimistically before any network
// round trip; backend confirmations patch them in place by id. Patches
// addressed to removed ids are dropped.
type ChatTranscript struct {
	mu       sync.RWMutex
	messages []*domain.Message

	now   func() time.Time
	newID func() string
}

// NewChatTranscript creates an empty transcript
func NewChatTranscript() *ChatTranscript {
	return &ChatTranscript{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// AppendOptimistic inserts a user message immediately and returns a copy
func (t *ChatTranscript) AppendOptimistic(kind domain.MessageKind, content string, metadata domain.Metadata) *domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := &domain.Message{
		ID:        t.newID(),
		Kind:      kind,
		Content:   content,
		Timestamp: t.now(),
		Role:      domain.RoleUser,
		Metadata:  metadata,
	}
	t.messages = append(t.messages, msg)
	return msg.Clone()
}

// Reconcile merges confirmed metadata into the optimistic entry matched
// by id, leaving its position unchanged. Returns false when the id is
// gone (e.g. the transcript was cleared while the call was in flight).
func (t *ChatTranscript) Reconcile(id string, patch domain.Metadata) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, m := range t.messages {
		if m.ID == id {
			m.MergeMetadata(patch)
			return true
		}
	}
	return false
}

// AppendAssistant appends an assistant message. A missing id or
// timestamp is filled in locally.
func (t *ChatTranscript) AppendAssistant(msg *domain.Message) *domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := msg.Clone()
	cp.Role = domain.RoleAssistant
	if cp.ID == "" {
		cp.ID = t.newID()
	}
	if cp.Timestamp.IsZero() {
		cp.Timestamp = t.now()
	}
	t.messages = append(t.messages, cp)
	return cp.Clone()
}

// Replace swaps the whole transcript for a snapshot fetched from the
// backend at session start.
func (t *ChatTranscript) Replace(messages []*domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = make([]*domain.Message, 0, len(messages))
	for _, m := range messages {
		t.messages = append(t.messages, m.Clone())
	}
}

// Clear empties the transcript
func (t *ChatTranscript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
}

// Messages returns copies of all messages in append order
func (t *ChatTranscript) Messages() []*domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*domain.Message, 0, len(t.messages))
	for _, m := range t.messages {
		out = append(out, m.Clone())
	}
	return out
}

// Len returns the number of messages
func (t *ChatTranscript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
