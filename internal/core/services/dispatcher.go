package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

const (
	defaultAudioFilename = "recording.webm"
	defaultImageFilename = "image.png"
)

// QueryDispatcher fans one query out to every method as independent
// goroutines. Each call settles on its own: a failure becomes an empty
// result for that method and never aborts or delays its siblings.
// Deliveries carry the generation tag handed out at dispatch time, so
// results of a superseded query are discarded at the aggregator.
type QueryDispatcher struct {
	backend driven.SearchBackend
	agg     *ResultAggregator
	ledger  *ConversationLedger
	logger  *slog.Logger

	wg sync.WaitGroup

	// metaSeen marks entries whose modality metadata already arrived, so
	// later responses of the same fan-out cannot rewrite it
	metaMu   sync.Mutex
	metaSeen map[string]struct{}
}

// NewQueryDispatcher creates a dispatcher reporting into agg and ledger
func NewQueryDispatcher(backend driven.SearchBackend, agg *ResultAggregator, ledger *ConversationLedger, logger *slog.Logger) *QueryDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryDispatcher{
		backend:  backend,
		agg:      agg,
		ledger:   ledger,
		logger:   logger,
		metaSeen: make(map[string]struct{}),
	}
}

// DispatchText fans a text query out to all methods
func (d *QueryDispatcher) DispatchText(ctx context.Context, query string) (*domain.ConversationEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	entry := d.ledger.Append(domain.QueryModeText, domain.QueryInfo{Original: query})
	generation := d.agg.BeginQuery()

	for _, method := range domain.Methods() {
		d.spawn(ctx, generation, entry.ID, method, func(ctx context.Context, m domain.Method) (*domain.MethodResponse, error) {
			return d.backend.SearchText(ctx, m, query)
		})
	}
	return entry, nil
}

// DispatchAudio fans a recorded audio query out to all methods.
// The conversation entry's original text stays empty until a response
// carrying the transcription amends it.
func (d *QueryDispatcher) DispatchAudio(ctx context.Context, audio []byte, ref string) (*domain.ConversationEntry, error) {
	if len(audio) == 0 {
		return nil, domain.ErrEmptyPayload
	}
	filename := ref
	if filename == "" {
		filename = defaultAudioFilename
	}

	entry := d.ledger.Append(domain.QueryModeAudio, domain.QueryInfo{AudioRef: ref})
	generation := d.agg.BeginQuery()

	for _, method := range domain.Methods() {
		d.spawn(ctx, generation, entry.ID, method, func(ctx context.Context, m domain.Method) (*domain.MethodResponse, error) {
			return d.backend.SearchAudio(ctx, m, audio, filename)
		})
	}
	return entry, nil
}

// DispatchImage fans an image query out to all methods
func (d *QueryDispatcher) DispatchImage(ctx context.Context, image []byte, ref string) (*domain.ConversationEntry, error) {
	if len(image) == 0 {
		return nil, domain.ErrEmptyPayload
	}
	filename := ref
	if filename == "" {
		filename = defaultImageFilename
	}

	entry := d.ledger.Append(domain.QueryModeImage, domain.QueryInfo{ImageRef: ref})
	generation := d.agg.BeginQuery()

	for _, method := range domain.Methods() {
		d.spawn(ctx, generation, entry.ID, method, func(ctx context.Context, m domain.Method) (*domain.MethodResponse, error) {
			return d.backend.SearchImage(ctx, m, image, filename)
		})
	}
	return entry, nil
}

// Wait blocks until every in-flight method call has settled
func (d *QueryDispatcher) Wait() {
	d.wg.Wait()
}

type methodCall func(ctx context.Context, method domain.Method) (*domain.MethodResponse, error)

func (d *QueryDispatcher) spawn(ctx context.Context, generation uint64, entryID string, method domain.Method, call methodCall) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(ctx, generation, entryID, method, call)
	}()
}

// run executes one method call and reports its outcome. Failures are
// swallowed here: the method's slot gets an empty, non-loading result.
func (d *QueryDispatcher) run(ctx context.Context, generation uint64, entryID string, method domain.Method, call methodCall) {
	resp, err := call(ctx, method)
	if err != nil {
		d.logger.Warn("search method failed",
			"method", method,
			"generation", generation,
			"error", err,
		)
		d.agg.Deliver(generation, domain.PerMethodResult{Method: method})
		return
	}

	delivered := d.agg.Deliver(generation, domain.PerMethodResult{
		Method:  method,
		Items:   resp.Results,
		Latency: resp.Latency(),
	})
	if !delivered {
		d.logger.Debug("discarded result of superseded query",
			"method", method,
			"generation", generation,
		)
	}

	// Modality-derived metadata is shared by the whole query and recorded
	// once, from whichever method's response carries it first. The ledger
	// amendment ignores the aggregator generation (the transcription
	// belongs to its own turn even after a newer query started) and is a
	// no-op for cleared entries.
	if meta := resp.Metadata(); !meta.IsZero() && d.firstMetadata(entryID) {
		d.agg.SetMetadata(generation, meta)
		d.ledger.AmendByID(entryID, entryPatch(meta))
	}
}

// firstMetadata marks entryID's metadata as seen and reports whether
// this call was the first to do so
func (d *QueryDispatcher) firstMetadata(entryID string) bool {
	d.metaMu.Lock()
	defer d.metaMu.Unlock()
	if _, seen := d.metaSeen[entryID]; seen {
		return false
	}
	d.metaSeen[entryID] = struct{}{}
	return true
}

// entryPatch maps response metadata onto a ledger amendment
func entryPatch(meta domain.QueryMetadata) domain.EntryPatch {
	var patch domain.EntryPatch
	if meta.Transcription != "" {
		patch.Original = &meta.Transcription
	} else if len(meta.DetectedFeatures) > 0 {
		joined := strings.Join(meta.DetectedFeatures, " ")
		patch.Original = &joined
	}
	if meta.RewrittenQuery != "" {
		patch.Rewritten = &meta.RewrittenQuery
	}
	return patch
}
