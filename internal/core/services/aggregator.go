package services

import (
	"sync"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

// ResultAggregator holds the latest per-method result for the current
// query. Each submission bumps a generation counter; deliveries tagged
// with a superseded generation are discarded, so results from an
// abandoned query can never merge with a newer one.
//
// Writers are the dispatcher goroutines, readers the session accessors;
// all access goes through the mutex.
type ResultAggregator struct {
	mu         sync.RWMutex
	generation uint64
	results    map[domain.Method]domain.PerMethodResult
	meta       domain.QueryMetadata
	metaSet    bool
}

// NewResultAggregator creates an aggregator with all methods idle
func NewResultAggregator() *ResultAggregator {
	results := make(map[domain.Method]domain.PerMethodResult, len(domain.Methods()))
	for _, m := range domain.Methods() {
		results[m] = domain.PerMethodResult{Method: m}
	}
	return &ResultAggregator{results: results}
}

// BeginQuery starts a new generation: all methods are reset to loading
// with no items, and the shared query metadata is cleared. Returns the
// generation tag the caller must attach to every delivery.
func (a *ResultAggregator) BeginQuery() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.generation++
	for _, m := range domain.Methods() {
		a.results[m] = domain.PerMethodResult{Method: m, Loading: true}
	}
	a.meta = domain.QueryMetadata{}
	a.metaSet = false
	return a.generation
}

// Deliver records one method's settled result. The loading flag is
// cleared regardless of success or failure (failures arrive as empty
// results). Returns false when the generation is stale and the result
// was discarded.
func (a *ResultAggregator) Deliver(generation uint64, result domain.PerMethodResult) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if generation != a.generation {
		return false
	}
	result.Loading = false
	a.results[result.Method] = result
	return true
}

// SetMetadata records the shared modality-derived metadata for the
// current query. Only the first non-stale call per generation wins.
func (a *ResultAggregator) SetMetadata(generation uint64, meta domain.QueryMetadata) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if generation != a.generation || a.metaSet {
		return false
	}
	a.meta = meta
	a.metaSet = true
	return true
}

// Results returns a copy of the per-method result table
func (a *ResultAggregator) Results() map[domain.Method]domain.PerMethodResult {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[domain.Method]domain.PerMethodResult, len(a.results))
	for m, r := range a.results {
		r.Items = append([]domain.SearchItem(nil), r.Items...)
		out[m] = r
	}
	return out
}

// Metadata returns the shared metadata of the current query
func (a *ResultAggregator) Metadata() domain.QueryMetadata {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.meta
}

// IsBusy reports whether any method is still loading
func (a *ResultAggregator) IsBusy() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, r := range a.results {
		if r.Loading {
			return true
		}
	}
	return false
}

// Generation returns the current generation tag
func (a *ResultAggregator) Generation() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.generation
}
