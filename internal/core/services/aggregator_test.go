package services

import (
	"testing"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

func TestResultAggregator_InitialState(t *testing.T) {
	agg := NewResultAggregator()

	if agg.Generation() != 0 {
		t.Errorf("expected generation 0, got %d", agg.Generation())
	}
	if agg.IsBusy() {
		t.Error("expected idle aggregator")
	}

	results := agg.Results()
	if len(results) != len(domain.Methods()) {
		t.Fatalf("expected %d method slots, got %d", len(domain.Methods()), len(results))
	}
	for _, m := range domain.Methods() {
		r, ok := results[m]
		if !ok {
			t.Fatalf("missing slot for method %s", m)
		}
		if r.Loading || len(r.Items) != 0 {
			t.Errorf("expected empty idle slot for %s, got %+v", m, r)
		}
	}
}

func TestResultAggregator_BeginQueryResetsSlots(t *testing.T) {
	agg := NewResultAggregator()

	gen := agg.BeginQuery()
	if gen != 1 {
		t.Errorf("expected first generation 1, got %d", gen)
	}
	agg.Deliver(gen, domain.PerMethodResult{
		Method: domain.MethodKeyword,
		Items:  []domain.SearchItem{{ID: "1", Name: "Diamond Ring"}},
	})
	if !agg.SetMetadata(gen, domain.QueryMetadata{RewrittenQuery: "diamond rings"}) {
		t.Fatal("expected metadata to be accepted")
	}

	gen2 := agg.BeginQuery()
	if gen2 != 2 {
		t.Errorf("expected generation 2, got %d", gen2)
	}
	if !agg.IsBusy() {
		t.Error("expected all methods loading after BeginQuery")
	}
	for m, r := range agg.Results() {
		if !r.Loading {
			t.Errorf("expected %s loading", m)
		}
		if len(r.Items) != 0 {
			t.Errorf("expected %s items cleared, got %d", m, len(r.Items))
		}
	}
	if !agg.Metadata().IsZero() {
		t.Errorf("expected metadata cleared, got %+v", agg.Metadata())
	}
}

func TestResultAggregator_StaleDeliveryDiscarded(t *testing.T) {
	agg := NewResultAggregator()

	stale := agg.BeginQuery()
	current := agg.BeginQuery()

	if agg.Deliver(stale, domain.PerMethodResult{
		Method: domain.MethodSemantic,
		Items:  []domain.SearchItem{{ID: "old"}},
	}) {
		t.Error("expected stale delivery to be discarded")
	}
	if !agg.Deliver(current, domain.PerMethodResult{
		Method: domain.MethodSemantic,
		Items:  []domain.SearchItem{{ID: "new"}},
	}) {
		t.Error("expected current delivery to be accepted")
	}

	got := agg.Results()[domain.MethodSemantic]
	if len(got.Items) != 1 || got.Items[0].ID != "new" {
		t.Errorf("expected only the current query's items, got %+v", got.Items)
	}

	if agg.SetMetadata(stale, domain.QueryMetadata{Transcription: "old words"}) {
		t.Error("expected stale metadata to be rejected")
	}
	if !agg.Metadata().IsZero() {
		t.Errorf("expected no metadata, got %+v", agg.Metadata())
	}
}

func TestResultAggregator_MetadataFirstWriterWins(t *testing.T) {
	agg := NewResultAggregator()
	gen := agg.BeginQuery()

	if !agg.SetMetadata(gen, domain.QueryMetadata{Transcription: "first"}) {
		t.Fatal("expected first metadata write to win")
	}
	if agg.SetMetadata(gen, domain.QueryMetadata{Transcription: "second"}) {
		t.Error("expected second metadata write to be rejected")
	}
	if agg.Metadata().Transcription != "first" {
		t.Errorf("expected transcription 'first', got %q", agg.Metadata().Transcription)
	}
}

func TestResultAggregator_BusyUntilAllSettled(t *testing.T) {
	agg := NewResultAggregator()
	gen := agg.BeginQuery()

	for i, m := range domain.Methods() {
		if !agg.IsBusy() {
			t.Fatalf("expected busy before delivery %d", i)
		}
		agg.Deliver(gen, domain.PerMethodResult{Method: m})
	}
	if agg.IsBusy() {
		t.Error("expected idle after all methods settled")
	}
}

func TestResultAggregator_ResultsAreCopies(t *testing.T) {
	agg := NewResultAggregator()
	gen := agg.BeginQuery()
	agg.Deliver(gen, domain.PerMethodResult{
		Method: domain.MethodKeyword,
		Items:  []domain.SearchItem{{ID: "1", Name: "Gold Necklace"}},
	})

	out := agg.Results()
	out[domain.MethodKeyword].Items[0].Name = "mutated"

	again := agg.Results()[domain.MethodKeyword]
	if again.Items[0].Name != "Gold Necklace" {
		t.Errorf("internal state leaked to caller copy: %q", again.Items[0].Name)
	}
}
