package local

import (
	"context"
	"strings"
	"time"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchBackend = (*SearchBackend)(nil)

// SearchBackend implements driven.SearchBackend over the built-in
// catalog. Behavior mirrors the HTTP service method for method, so
// switching between local and remote mode changes nothing above the
// port.
type SearchBackend struct {
	engine *Engine
}

// NewSearchBackend creates a catalog-backed SearchBackend
func NewSearchBackend(engine *Engine) *SearchBackend {
	return &SearchBackend{engine: engine}
}

// SearchText runs one method against a text query
func (b *SearchBackend) SearchText(ctx context.Context, method domain.Method, query string) (*domain.MethodResponse, error) {
	start := time.Now()

	var (
		results   []domain.SearchItem
		rewritten string
	)
	switch method {
	case domain.MethodKeyword:
		results = b.engine.KeywordSearch(query)
	case domain.MethodFuzzy:
		results = b.engine.FuzzySearch(query)
	case domain.MethodSemantic:
		rewritten = b.engine.RewriteQuery(query)
		results = b.engine.SemanticSearch(query)
	default:
		return nil, domain.ErrUnknownMethod
	}

	return &domain.MethodResponse{
		Method:         method,
		Results:        results,
		LatencyMS:      latencyMS(start),
		RewrittenQuery: rewritten,
	}, nil
}

// SearchAudio transcribes the clip, then runs the method on the
// transcription
func (b *SearchBackend) SearchAudio(ctx context.Context, method domain.Method, audio []byte, filename string) (*domain.MethodResponse, error) {
	if !method.Valid() {
		return nil, domain.ErrUnknownMethod
	}
	start := time.Now()

	transcription := b.engine.Transcribe(audio)

	var results []domain.SearchItem
	switch method {
	case domain.MethodKeyword:
		results = b.engine.KeywordSearch(transcription)
	case domain.MethodFuzzy:
		results = b.engine.FuzzySearch(transcription)
	case domain.MethodSemantic:
		results = b.engine.SemanticSearch(transcription)
	}

	return &domain.MethodResponse{
		Method:        method,
		Results:       results,
		LatencyMS:     latencyMS(start),
		Transcription: transcription,
	}, nil
}

// SearchImage detects features in the image, then searches with them.
// The keyword and fuzzy methods treat the features as query words; the
// semantic method scores feature presence directly.
func (b *SearchBackend) SearchImage(ctx context.Context, method domain.Method, image []byte, filename string) (*domain.MethodResponse, error) {
	if !method.Valid() {
		return nil, domain.ErrUnknownMethod
	}
	start := time.Now()

	features := b.engine.AnalyzeImage(image)
	query := strings.Join(features, " ")

	var results []domain.SearchItem
	switch method {
	case domain.MethodKeyword:
		results = b.engine.KeywordSearch(query)
	case domain.MethodFuzzy:
		results = b.engine.FuzzySearch(query)
	case domain.MethodSemantic:
		results = b.engine.ImageSearch(features)
	}

	return &domain.MethodResponse{
		Method:           method,
		Results:          results,
		LatencyMS:        latencyMS(start),
		DetectedFeatures: features,
	}, nil
}

func latencyMS(start time.Time) float64 {
	ms := float64(time.Since(start)) / float64(time.Millisecond)
	if ms <= 0 {
		// Rounded clocks can report zero for sub-millisecond work;
		// keep the latency marked as measured.
		return 0.01
	}
	return ms
}
