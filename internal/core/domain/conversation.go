package domain

import "time"

// QueryMode is the input modality of a conversational search turn
type QueryMode string

const (
	QueryModeText  QueryMode = "text"
	QueryModeAudio QueryMode = "audio"
	QueryModeImage QueryMode = "image"
)

// QueryInfo carries the texts and media references of one search turn
type QueryInfo struct {
	// Original is the query as submitted. For audio turns it is filled
	// with the transcription once the dispatch resolves.
	Original string `json:"original"`

	// Rewritten is the expanded query returned by the semantic backend,
	// when one was returned.
	Rewritten string `json:"rewritten,omitempty"`

	// AudioRef and ImageRef are opaque references to the submitted media
	// (display concerns; the core never dereferences them).
	AudioRef string `json:"audio_ref,omitempty"`
	ImageRef string `json:"image_ref,omitempty"`
}

// ConversationEntry is one turn of a multi-turn search conversation.
// Entries are created in strictly increasing order; only late-arriving
// dispatch results may amend an entry after it is appended.
type ConversationEntry struct {
	ID        string    `json:"id"`
	Mode      QueryMode `json:"mode"`
	Query     QueryInfo `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// DisplayText returns the rewritten query if present, else the original
func (e *ConversationEntry) DisplayText() string {
	if e.Query.Rewritten != "" {
		return e.Query.Rewritten
	}
	return e.Query.Original
}

// EntryPatch is a partial amendment applied to a ledger entry by id.
// Nil fields are left untouched.
type EntryPatch struct {
	Original  *string
	Rewritten *string
}

// Apply folds the patch into the entry
func (p EntryPatch) Apply(e *ConversationEntry) {
	if p.Original != nil {
		e.Query.Original = *p.Original
	}
	if p.Rewritten != nil {
		e.Query.Rewritten = *p.Rewritten
	}
}
