package local

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

// queryExpansions widen a term into related vocabulary before semantic
// scoring, standing in for LLM query rewriting
var queryExpansions = map[string]string{
	"ring":     "ring jewelry band",
	"necklace": "necklace chain pendant jewelry",
	"earring":  "earrings studs jewelry",
	"bracelet": "bracelet bangle jewelry",
	"gold":     "gold yellow metal luxury",
	"silver":   "silver sterling white metal",
	"diamond":  "diamond brilliant sparkle luxury engagement",
	"gift":     "gift present elegant romantic luxury",
	"wedding":  "wedding engagement matrimony bridal",
	"vintage":  "vintage antique classic retro art deco",
}

// associations link abstract concepts to catalog vocabulary, standing in
// for embedding similarity
var associations = map[string][]string{
	"engagement": {"ring", "diamond", "solitaire"},
	"wedding":    {"ring", "gold", "band"},
	"gift":       {"pendant", "earrings", "bracelet"},
	"luxury":     {"diamond", "gold", "platinum", "emerald", "sapphire"},
	"everyday":   {"chain", "stud", "simple"},
	"vintage":    {"art deco", "antique", "classic"},
	"romantic":   {"heart", "rose", "pendant"},
}

var transcriptions = []string{
	"diamond ring",
	"gold necklace",
	"pearl earrings",
	"silver bracelet",
	"vintage emerald",
}

var imageFeatures = [][]string{
	{"ring", "gold", "diamond"},
	{"necklace", "chain", "pendant"},
	{"earrings", "pearl", "elegant"},
	{"bracelet", "silver", "sparkle"},
	{"ring", "emerald", "vintage"},
}

// Engine scores the fixed catalog with three distinct strategies. The
// keyword and fuzzy scorers are deterministic; the semantic scorer mixes
// in seeded noise to imitate embedding variance.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an engine seeded for reproducible scoring
func NewEngine(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// KeywordSearch scores by the fraction of query words found in the
// product text
func (e *Engine) KeywordSearch(query string) []domain.SearchItem {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return nil
	}

	var results []domain.SearchItem
	for _, p := range catalog {
		text := productText(p)
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		if matches > 0 {
			p.Score = round3(float64(matches) / float64(len(keywords)))
			results = append(results, p)
		}
	}
	return sortByScore(results)
}

// FuzzySearch scores by 3-character substring hits plus a boost for
// whole-word matches, clamped to 1.0
func (e *Engine) FuzzySearch(query string) []domain.SearchItem {
	queryLower := strings.ToLower(query)

	var results []domain.SearchItem
	for _, p := range catalog {
		text := productText(p)

		score := 0.0
		for i := 0; i+3 <= len(queryLower); i++ {
			if strings.Contains(text, queryLower[i:i+3]) {
				score += 0.2
			}
		}
		for _, word := range strings.Fields(queryLower) {
			if strings.Contains(text, word) {
				score += 0.3
			}
		}

		if score > 0 {
			p.Score = round3(math.Min(score, 1.0))
			results = append(results, p)
		}
	}
	return sortByScore(results)
}

// SemanticSearch scores word presence plus concept associations, with a
// small noise term to imitate embedding similarity variance
func (e *Engine) SemanticSearch(query string) []domain.SearchItem {
	queryLower := strings.ToLower(query)

	var results []domain.SearchItem
	for _, p := range catalog {
		text := strings.ToLower(p.Name + " " + p.Description)

		score := 0.0
		for _, word := range strings.Fields(queryLower) {
			if strings.Contains(text, word) {
				score += 0.3
			}
		}
		for concept, related := range associations {
			if !strings.Contains(queryLower, concept) {
				continue
			}
			for _, r := range related {
				if strings.Contains(text, r) {
					score += 0.15
				}
			}
		}

		if score > 0 {
			score += e.noise(-0.1, 0.1)
			p.Score = round3(clamp(score, 0.1, 1.0))
			results = append(results, p)
		}
	}
	return sortByScore(results)
}

// ImageSearch scores products against features detected in an image
func (e *Engine) ImageSearch(features []string) []domain.SearchItem {
	var results []domain.SearchItem
	for _, p := range catalog {
		text := strings.ToLower(p.Name + " " + p.Description)

		score := 0.0
		for _, f := range features {
			if strings.Contains(text, strings.ToLower(f)) {
				score += 0.3
			}
		}

		if score > 0 {
			score += e.noise(-0.1, 0.15)
			p.Score = round3(clamp(score, 0.1, 1.0))
			results = append(results, p)
		}
	}
	return sortByScore(results)
}

// RewriteQuery expands query terms into related vocabulary. Returns the
// empty string when expansion changes nothing.
func (e *Engine) RewriteQuery(query string) string {
	queryLower := strings.ToLower(query)
	words := strings.Fields(queryLower)

	expanded := make(map[string]struct{}, len(words))
	for _, w := range words {
		expanded[w] = struct{}{}
	}
	for _, w := range words {
		if exp, ok := queryExpansions[w]; ok {
			for _, term := range strings.Fields(exp) {
				expanded[term] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(expanded))
	for w := range expanded {
		out = append(out, w)
	}
	sort.Strings(out)

	rewritten := strings.Join(out, " ")
	if rewritten == queryLower {
		return ""
	}
	return rewritten
}

// Transcribe picks a canned transcription for the audio clip
func (e *Engine) Transcribe(audio []byte) string {
	return transcriptions[e.pick(len(transcriptions))]
}

// AnalyzeImage picks a canned feature set for the image
func (e *Engine) AnalyzeImage(image []byte) []string {
	features := imageFeatures[e.pick(len(imageFeatures))]
	return append([]string(nil), features...)
}

func (e *Engine) noise(lo, hi float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lo + e.rng.Float64()*(hi-lo)
}

func (e *Engine) pick(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

// Jitter returns a random duration in [min, max]
func (e *Engine) Jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return min + time.Duration(e.rng.Int63n(int64(max-min)+1))
}

func productText(p domain.SearchItem) string {
	return strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
}

func sortByScore(items []domain.SearchItem) []domain.SearchItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
