package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

func newTestLedger() *ConversationLedger {
	l := NewConversationLedger()
	seq := 0
	l.newID = func() string {
		seq++
		return fmt.Sprintf("entry-%d", seq)
	}
	l.now = func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	}
	return l
}

func strptr(s string) *string { return &s }

func TestConversationLedger_AppendAndEntries(t *testing.T) {
	l := newTestLedger()

	first := l.Append(domain.QueryModeText, domain.QueryInfo{Original: "rings"})
	second := l.Append(domain.QueryModeAudio, domain.QueryInfo{AudioRef: "clip.webm"})

	if first.ID == second.ID {
		t.Error("expected distinct entry ids")
	}
	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != first.ID || entries[1].ID != second.ID {
		t.Error("expected entries in append order")
	}

	// Mutating a returned copy must not touch the ledger
	entries[0].Query.Original = "mutated"
	if l.Entries()[0].Query.Original != "rings" {
		t.Error("caller copy leaked into ledger state")
	}
}

func TestConversationLedger_AmendByID_NonLastEntry(t *testing.T) {
	l := newTestLedger()

	first := l.Append(domain.QueryModeAudio, domain.QueryInfo{AudioRef: "clip.webm"})
	l.Append(domain.QueryModeText, domain.QueryInfo{Original: "under 500"})

	if !l.AmendByID(first.ID, domain.EntryPatch{Original: strptr("gold bracelets")}) {
		t.Fatal("expected amendment of non-last entry to apply")
	}

	entries := l.Entries()
	if entries[0].Query.Original != "gold bracelets" {
		t.Errorf("expected first entry amended, got %q", entries[0].Query.Original)
	}
	if entries[1].Query.Original != "under 500" {
		t.Errorf("expected second entry untouched, got %q", entries[1].Query.Original)
	}
}

func TestConversationLedger_AmendAfterClearIsNoOp(t *testing.T) {
	l := newTestLedger()
	entry := l.Append(domain.QueryModeText, domain.QueryInfo{Original: "rings"})
	l.Clear()

	if l.AmendByID(entry.ID, domain.EntryPatch{Rewritten: strptr("late")}) {
		t.Error("expected amendment for cleared entry to be dropped")
	}
	if l.Len() != 0 {
		t.Errorf("expected empty ledger, got %d entries", l.Len())
	}
}

func TestConversationLedger_RefinedQuery(t *testing.T) {
	l := newTestLedger()

	l.Append(domain.QueryModeText, domain.QueryInfo{Original: "diamond rings"})
	pending := l.Append(domain.QueryModeAudio, domain.QueryInfo{AudioRef: "clip.webm"})
	rewritten := l.Append(domain.QueryModeText, domain.QueryInfo{
		Original:  "under 1000",
		Rewritten: "price under 1000 dollars",
	})
	_ = rewritten

	// Pending audio turn has no text yet and is skipped
	if got := l.RefinedQuery(); got != "diamond rings price under 1000 dollars" {
		t.Errorf("unexpected refined query %q", got)
	}

	l.AmendByID(pending.ID, domain.EntryPatch{Original: strptr("gold bracelets")})
	if got := l.RefinedQuery(); got != "diamond rings gold bracelets price under 1000 dollars" {
		t.Errorf("unexpected refined query after amendment %q", got)
	}
}
