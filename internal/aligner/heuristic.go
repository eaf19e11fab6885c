package aligner

import (
	"context"
	"math"
	"strings"

	"github.com/lexalign/lexalign/internal"
	"github.com/lexalign/lexalign/internal/tokenizer"
)

// Tier confidences. Pattern-dictionary hits are the most reliable signal
// available without a trained model; cognates and bare position are weaker.
const (
	patternConfidence  = 0.7
	cognateConfidence  = 0.3
	positionConfidence = 0.3
)

// cognateMinRunes and cognateThreshold gate cognate detection: both words
// must have at least 3 runes and a similarity ratio strictly above 0.6.
const (
	cognateMinRunes  = 3
	cognateThreshold = 0.6
)

// Heuristic is the deterministic, dependency-free alignment strategy. For
// each source token it tries, in strict priority order: a curated
// lemma-to-equivalents pattern table, edit-distance cognate detection, and
// finally proportional position mapping. Every source token always receives
// an alignment, so the formatter's fixed-length guarantee holds even with no
// model loaded.
type Heuristic struct{}

// NewHeuristic returns the fallback strategy. It is stateless.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Name implements Strategy.
func (h *Heuristic) Name() string {
	return MethodFallback
}

// Align implements Strategy. It never returns an error.
func (h *Heuristic) Align(_ context.Context, lang internal.Language, source, target []tokenizer.Token) ([]internal.WordAlignment, error) {
	patterns := patternTable(lang)

	out := make([]internal.WordAlignment, 0, len(source))
	for _, src := range source {
		a := internal.WordAlignment{
			SourceWord:    src.Text,
			SourceIndex:   src.Index,
			TargetWords:   []string{},
			TargetIndices: []int{},
		}

		if indices := patternMatches(src.Text, target, patterns); len(indices) > 0 {
			for _, j := range indices {
				a.TargetIndices = append(a.TargetIndices, j)
				a.TargetWords = append(a.TargetWords, target[j].Text)
			}
			a.Confidence = patternConfidence
		} else if j, ok := bestCognate(src.Text, target); ok {
			a.TargetIndices = []int{j}
			a.TargetWords = []string{target[j].Text}
			a.Confidence = cognateConfidence
		} else if j, ok := positionFallback(src.Index, len(source), len(target)); ok {
			a.TargetIndices = []int{j}
			a.TargetWords = []string{target[j].Text}
			a.Confidence = positionConfidence
		}

		out = append(out, a)
	}
	return out, nil
}

// patternMatches returns the indices of all target tokens whose lowercase
// form contains one of the expected equivalents for the source lemma.
func patternMatches(sourceWord string, target []tokenizer.Token, patterns map[string][]string) []int {
	equivalents, ok := patterns[strings.ToLower(sourceWord)]
	if !ok {
		return nil
	}

	var indices []int
	for _, tgt := range target {
		tgtLower := strings.ToLower(tgt.Text)
		for _, eq := range equivalents {
			if strings.Contains(tgtLower, eq) {
				indices = append(indices, tgt.Index)
				break
			}
		}
	}
	return indices
}

// bestCognate returns the target index with the highest similarity ratio
// strictly above cognateThreshold, or false when no target qualifies. Ties
// resolve to the lowest index, keeping the strategy deterministic.
func bestCognate(sourceWord string, target []tokenizer.Token) (int, bool) {
	srcLower := strings.ToLower(sourceWord)
	if len([]rune(srcLower)) < cognateMinRunes {
		return 0, false
	}

	best := -1
	bestScore := cognateThreshold
	for _, tgt := range target {
		tgtLower := strings.ToLower(tgt.Text)
		if len([]rune(tgtLower)) < cognateMinRunes {
			continue
		}
		if score := stringSimilarity(srcLower, tgtLower); score > bestScore {
			bestScore = score
			best = tgt.Index
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// positionFallback maps a source position proportionally onto the target
// sequence, clipped into valid range. Returns false only for an empty target.
func positionFallback(sourceIndex, sourceLen, targetLen int) (int, bool) {
	if sourceLen == 0 || targetLen == 0 {
		return 0, false
	}
	j := int(math.Round(float64(sourceIndex) * float64(targetLen) / float64(sourceLen)))
	if j < 0 {
		j = 0
	}
	if j > targetLen-1 {
		j = targetLen - 1
	}
	return j, true
}

// levenshtein returns the edit distance between two strings (rune-aware),
// using a space-optimized two-row DP implementation.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				min := prev[j]
				if prev[j-1] < min {
					min = prev[j-1]
				}
				if curr[j-1] < min {
					min = curr[j-1]
				}
				curr[j] = min + 1
			}
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

// stringSimilarity returns a similarity ratio in [0, 1] (1 = identical).
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}
