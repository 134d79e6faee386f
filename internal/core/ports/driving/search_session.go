package driving

import (
	"context"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

// SearchSession drives the side-by-side comparison flow: each submission
// fans out to all methods concurrently; accessors expose the latest
// per-method results and the conversation history.
type SearchSession interface {
	// SubmitText dispatches a text query to all methods.
	// Returns the appended conversation entry; dispatch continues in the
	// background and settles into the result table.
	SubmitText(ctx context.Context, query string) (*domain.ConversationEntry, error)

	// SubmitAudio dispatches a recorded audio query to all methods.
	// ref is an opaque display reference to the recording.
	SubmitAudio(ctx context.Context, audio []byte, ref string) (*domain.ConversationEntry, error)

	// SubmitImage dispatches an image query to all methods
	SubmitImage(ctx context.Context, image []byte, ref string) (*domain.ConversationEntry, error)

	// Results returns the latest per-method results for the current query
	Results() map[domain.Method]domain.PerMethodResult

	// QueryMetadata returns the shared modality-derived metadata of the
	// current query (transcription, detected features, rewritten query)
	QueryMetadata() domain.QueryMetadata

	// IsBusy reports whether any method call is still in flight
	IsBusy() bool

	// History returns the conversation entries in append order
	History() []*domain.ConversationEntry

	// RefinedQuery concatenates each turn's rewritten-or-original query
	RefinedQuery() string

	// ClearConversation empties the ledger; in-flight amendments for
	// cleared entries become no-ops
	ClearConversation()

	// Wait blocks until all in-flight method calls have settled
	Wait()
}
