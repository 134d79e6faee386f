package domain

import "time"

// Method is one of the ranking strategies compared side by side
type Method string

const (
	MethodKeyword  Method = "keyword"
	MethodFuzzy    Method = "fuzzy"
	MethodSemantic Method = "semantic"
)

// Methods returns the fixed method set, in display order
func Methods() []Method {
	return []Method{MethodKeyword, MethodFuzzy, MethodSemantic}
}

// Valid reports whether the method is one of the fixed set
func (m Method) Valid() bool {
	switch m {
	case MethodKeyword, MethodFuzzy, MethodSemantic:
		return true
	}
	return false
}

// SearchItem is one scored result record
type SearchItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Score       float64 `json:"score"`
	Category    string  `json:"category,omitempty"`
	Badge       string  `json:"badge,omitempty"`
}

// PerMethodResult is the latest outcome for one method and the current
// query. Exactly one exists per method; a new submission resets it to
// loading with no items before any result arrives.
type PerMethodResult struct {
	Method  Method        `json:"method"`
	Items   []SearchItem  `json:"items"`
	Latency time.Duration `json:"latency"` // 0 = not reported
	Loading bool          `json:"loading"`
}

// QueryMetadata is modality-derived data shared by the whole query,
// recorded once from whichever method's response first carries it.
type QueryMetadata struct {
	RewrittenQuery   string   `json:"rewritten_query,omitempty"`
	Transcription    string   `json:"transcription,omitempty"`
	DetectedFeatures []string `json:"detected_features,omitempty"`
}

// IsZero reports whether no modality-derived field is set
func (q QueryMetadata) IsZero() bool {
	return q.RewrittenQuery == "" && q.Transcription == "" && len(q.DetectedFeatures) == 0
}

// MethodResponse is what a search backend returns for one method call
type MethodResponse struct {
	Method           Method       `json:"method"`
	Results          []SearchItem `json:"results"`
	LatencyMS        float64      `json:"latency_ms"`
	Transcription    string       `json:"transcription,omitempty"`
	RewrittenQuery   string       `json:"rewritten_query,omitempty"`
	DetectedFeatures []string     `json:"detected_features,omitempty"`
}

// Latency converts the reported latency to a duration; 0 when unreported
func (r *MethodResponse) Latency() time.Duration {
	if r.LatencyMS <= 0 {
		return 0
	}
	return time.Duration(r.LatencyMS * float64(time.Millisecond))
}

// Metadata extracts the modality-derived fields of the response
func (r *MethodResponse) Metadata() QueryMetadata {
	return QueryMetadata{
		RewrittenQuery:   r.RewrittenQuery,
		Transcription:    r.Transcription,
		DetectedFeatures: r.DetectedFeatures,
	}
}
