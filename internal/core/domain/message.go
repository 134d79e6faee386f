package domain

import "time"

// MessageKind identifies the input modality of a chat message
type MessageKind string

const (
	KindText    MessageKind = "text"
	KindAudio   MessageKind = "audio"
	KindImage   MessageKind = "image"
	KindSnippet MessageKind = "snippet"
)

// Valid reports whether the kind is one of the fixed modalities
func (k MessageKind) Valid() bool {
	switch k {
	case KindText, KindAudio, KindImage, KindSnippet:
		return true
	}
	return false
}

// Role identifies which side of the conversation produced a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Metadata keys used across modalities. The mapping itself is open;
// these are the keys the core reads or writes.
const (
	MetaTranscription = "transcription"
	MetaFeatures      = "features"
	MetaLanguage      = "language"
	MetaLineCount     = "line_count"
	MetaLength        = "length"
	MetaDuration      = "duration"
	MetaMimeType      = "mime_type"
	MetaFileName      = "file_name"
	MetaFileSize      = "file_size"
)

// Metadata is an open mapping of auxiliary message fields
type Metadata map[string]any

// String returns the string value for key, if present
func (md Metadata) String(key string) (string, bool) {
	if md == nil {
		return "", false
	}
	v, ok := md[key].(string)
	return v, ok
}

// StringSlice returns the string-slice value for key, if present.
// JSON decoding produces []any, which is converted element-wise.
func (md Metadata) StringSlice(key string) ([]string, bool) {
	if md == nil {
		return nil, false
	}
	switch v := md[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Clone returns a shallow copy of the metadata map
func (md Metadata) Clone() Metadata {
	if md == nil {
		return nil
	}
	out := make(Metadata, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}

// Message is one chat turn.
// The id is unique within a transcript; order of messages is append order.
type Message struct {
	ID        string      `json:"id"`
	Kind      MessageKind `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Role      Role        `json:"role"`
	Metadata  Metadata    `json:"metadata,omitempty"`
}

// MergeMetadata folds patch fields into the message metadata.
// Existing keys are overwritten; the message is otherwise untouched.
func (m *Message) MergeMetadata(patch Metadata) {
	if len(patch) == 0 {
		return
	}
	if m.Metadata == nil {
		m.Metadata = make(Metadata, len(patch))
	}
	for k, v := range patch {
		m.Metadata[k] = v
	}
}

// Clone returns a copy of the message safe to hand to callers
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	out := *m
	out.Metadata = m.Metadata.Clone()
	return &out
}
