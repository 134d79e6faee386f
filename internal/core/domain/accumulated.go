package domain

import (
	"strings"
	"unicode"
)

// Topic labels added to AccumulatedState, each at most once
const (
	TopicVoice  = "voice"
	TopicVisual = "visual"
	TopicCode   = "code"
)

// MaxKeywords caps the keyword set; oldest-inserted entries beyond the
// cap are dropped.
const MaxKeywords = 20

// stopWords are excluded from keyword extraction. Only words of three or
// more letters appear here; shorter runs never survive extraction anyway.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"with": {}, "this": {}, "that": {}, "from": {}, "have": {}, "has": {},
	"was": {}, "were": {}, "been": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"them": {}, "they": {}, "their": {}, "there": {}, "about": {},
	"into": {}, "over": {}, "some": {}, "than": {}, "then": {}, "your": {},
	"you": {}, "can": {}, "all": {}, "any": {}, "out": {}, "get": {},
	"how": {}, "who": {}, "its": {}, "our": {}, "per": {}, "via": {},
}

// AccumulatedState is the running aggregate derived from accepted chat
// messages. The zero value is the cleared state.
type AccumulatedState struct {
	MessageCount  int      `json:"message_count"`
	TextCount     int      `json:"text_count"`
	AudioCount    int      `json:"audio_count"`
	ImageCount    int      `json:"image_count"`
	SnippetCount  int      `json:"snippet_count"`
	Keywords      []string `json:"keywords"`
	Topics        []string `json:"topics"`
	CodeLanguages []string `json:"code_languages"`
}

// Apply derives the next state from the previous state and one accepted
// message. It is a pure function of its inputs: no clock, no randomness,
// no mutation of the receiver, so replaying a message sequence from the
// zero state always reproduces the same result.
func (s AccumulatedState) Apply(msg *Message) AccumulatedState {
	next := s.Clone()
	next.MessageCount++

	switch msg.Kind {
	case KindText:
		next.TextCount++
		next.Keywords = mergeKeywords(next.Keywords, ExtractKeywords(msg.Content))
	case KindAudio:
		next.AudioCount++
		next.Topics = appendUnique(next.Topics, TopicVoice)
	case KindImage:
		next.ImageCount++
		next.Topics = appendUnique(next.Topics, TopicVisual)
	case KindSnippet:
		next.SnippetCount++
		next.Topics = appendUnique(next.Topics, TopicCode)
		if lang, ok := msg.Metadata.String(MetaLanguage); ok && lang != "" {
			next.CodeLanguages = appendUnique(next.CodeLanguages, lang)
		}
	}

	return next
}

// Clone deep-copies the slice fields so Apply never aliases the receiver
func (s AccumulatedState) Clone() AccumulatedState {
	out := s
	out.Keywords = append([]string(nil), s.Keywords...)
	out.Topics = append([]string(nil), s.Topics...)
	out.CodeLanguages = append([]string(nil), s.CodeLanguages...)
	return out
}

// ExtractKeywords lowercases the text, takes maximal runs of three or
// more letters, drops stop words, and de-duplicates preserving first
// occurrence order.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)
	runs := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	var out []string
	seen := make(map[string]struct{}, len(runs))
	for _, w := range runs {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// mergeKeywords unions incoming keywords into the existing set, keeping
// insertion order, then truncates to the MaxKeywords most recently
// introduced.
func mergeKeywords(existing, incoming []string) []string {
	out := existing
	for _, kw := range incoming {
		out = appendUnique(out, kw)
	}
	if len(out) > MaxKeywords {
		out = out[len(out)-MaxKeywords:]
	}
	return out
}

// appendUnique appends v unless already present
func appendUnique(set []string, v string) []string {
	for _, e := range set {
		if e == v {
			return set
		}
	}
	return append(set, v)
}
