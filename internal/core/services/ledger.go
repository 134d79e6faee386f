package services

import (
	"strings"
	"sync"
	"time"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/google/uuid"
)

// ConversationLedger is the append-only history of conversational search
// turns. Entries are amended by id (never by position), because method
// calls resolve out of order relative to later user input. Amendments
// addressed to an id that no longer exists are silently dropped.
type ConversationLedger struct {
	mu      sync.RWMutex
	entries []*domain.ConversationEntry

	now   func() time.Time
	newID func() string
}

// NewConversationLedger creates an empty ledger
func NewConversationLedger() *ConversationLedger {
	return &ConversationLedger{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Append adds a new turn at the end and returns a copy of it
func (l *ConversationLedger) Append(mode domain.QueryMode, query domain.QueryInfo) *domain.ConversationEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := &domain.ConversationEntry{
		ID:        l.newID(),
		Mode:      mode,
		Query:     query,
		Timestamp: l.now(),
	}
	l.entries = append(l.entries, entry)

	cp := *entry
	return &cp
}

// AmendByID merges the patch into the entry matching id. Returns false
// when no such entry exists (including after a clear) - a no-op, not an
// error.
func (l *ConversationLedger) AmendByID(id string, patch domain.EntryPatch) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if e.ID == id {
			patch.Apply(e)
			return true
		}
	}
	return false
}

// Clear empties the ledger
func (l *ConversationLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Entries returns copies of all turns in append order
func (l *ConversationLedger) Entries() []*domain.ConversationEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.ConversationEntry, 0, len(l.entries))
	for _, e := range l.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// Len returns the number of turns
func (l *ConversationLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// RefinedQuery concatenates each turn's rewritten-query-if-present-else-
// original, in append order, joined by a single space. Pure projection,
// recomputed on every call.
func (l *ConversationLedger) RefinedQuery() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	parts := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		if text := e.DisplayText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
