package aligner

import (
	"context"
	"fmt"
	"sort"

	"github.com/viterin/vek/vek32"

	"github.com/lexalign/lexalign/internal"
	"github.com/lexalign/lexalign/internal/tokenizer"
)

// DefaultSimilarityThreshold is the cosine similarity an argmax pair must
// exceed to be kept as a correspondence.
const DefaultSimilarityThreshold = 0.5

// BatchEmbedder yields one embedding vector per input text. The loaded ONNX
// model satisfies this; tests substitute a deterministic stub.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedding aligns token sequences by cosine similarity of their contextual
// embeddings. Matching is many-to-many: a pair (i, j) is kept when it is the
// best match in its row or in its column of the similarity matrix and its
// similarity reaches the threshold, so one source word may attach to zero,
// one, or several target words and vice versa.
//
// Target indices for a source token are emitted in ascending order. That
// ordering is implementation-defined, not contractual.
type Embedding struct {
	embedder  BatchEmbedder
	threshold float32
}

// NewEmbedding wraps a loaded embedder as an alignment strategy. A threshold
// of 0 or less selects DefaultSimilarityThreshold.
func NewEmbedding(e BatchEmbedder, threshold float64) *Embedding {
	t := float32(threshold)
	if t <= 0 {
		t = DefaultSimilarityThreshold
	}
	return &Embedding{embedder: e, threshold: t}
}

// Name implements Strategy.
func (s *Embedding) Name() string {
	return MethodEmbedding
}

// Align implements Strategy. Errors from the underlying inference are
// returned to the caller, which is expected to fall back to the heuristic
// strategy for that call.
func (s *Embedding) Align(ctx context.Context, _ internal.Language, source, target []tokenizer.Token) ([]internal.WordAlignment, error) {
	if len(source) == 0 {
		return nil, nil
	}
	if len(target) == 0 {
		return emptyCoverage(source), nil
	}

	srcVecs, err := s.embedder.EmbedBatch(ctx, tokenizer.Words(source))
	if err != nil {
		return nil, fmt.Errorf("embed source tokens: %w", err)
	}
	tgtVecs, err := s.embedder.EmbedBatch(ctx, tokenizer.Words(target))
	if err != nil {
		return nil, fmt.Errorf("embed target tokens: %w", err)
	}
	if len(srcVecs) != len(source) || len(tgtVecs) != len(target) {
		return nil, fmt.Errorf("embedding count mismatch: got %d/%d vectors for %d/%d tokens",
			len(srcVecs), len(tgtVecs), len(source), len(target))
	}

	sim := similarityMatrix(srcVecs, tgtVecs)
	pairs := matchUnion(sim, s.threshold)

	bySource := make(map[int][]int, len(source))
	for _, p := range pairs {
		bySource[p.src] = append(bySource[p.src], p.tgt)
	}

	out := make([]internal.WordAlignment, 0, len(source))
	for _, src := range source {
		indices := bySource[src.Index]
		sort.Ints(indices)

		words := make([]string, 0, len(indices))
		for _, j := range indices {
			words = append(words, target[j].Text)
		}
		if indices == nil {
			indices = []int{}
		}

		out = append(out, internal.WordAlignment{
			SourceWord:    src.Text,
			SourceIndex:   src.Index,
			TargetWords:   words,
			TargetIndices: indices,
			Confidence:    embeddingConfidence(src.Index, len(source), indices, len(target)),
		})
	}
	return out, nil
}

type pair struct {
	src, tgt int
}

// similarityMatrix computes cosine similarity for every token pair.
func similarityMatrix(src, tgt [][]float32) [][]float32 {
	sim := make([][]float32, len(src))
	for i, sv := range src {
		row := make([]float32, len(tgt))
		for j, tv := range tgt {
			row[j] = vek32.CosineSimilarity(sv, tv)
		}
		sim[i] = row
	}
	return sim
}

// matchUnion keeps every pair that is the argmax of its row or of its column
// and exceeds the threshold. Equal-similarity ties resolve to the lowest index,
// so the matching is fully deterministic. Pairs come out grouped by source
// index ascending with no duplicates.
func matchUnion(sim [][]float32, threshold float32) []pair {
	if len(sim) == 0 {
		return nil
	}
	rows := len(sim)
	cols := len(sim[0])

	keep := make(map[pair]struct{})

	for i := 0; i < rows; i++ {
		best, bestVal := -1, threshold
		for j := 0; j < cols; j++ {
			if sim[i][j] > bestVal {
				bestVal = sim[i][j]
				best = j
			}
		}
		if best >= 0 {
			keep[pair{i, best}] = struct{}{}
		}
	}

	for j := 0; j < cols; j++ {
		best, bestVal := -1, threshold
		for i := 0; i < rows; i++ {
			if sim[i][j] > bestVal {
				bestVal = sim[i][j]
				best = i
			}
		}
		if best >= 0 {
			keep[pair{best, j}] = struct{}{}
		}
	}

	pairs := make([]pair, 0, len(keep))
	for p := range keep {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].src != pairs[b].src {
			return pairs[a].src < pairs[b].src
		}
		return pairs[a].tgt < pairs[b].tgt
	})
	return pairs
}

// emptyCoverage returns a zero-confidence alignment for every source token.
func emptyCoverage(source []tokenizer.Token) []internal.WordAlignment {
	out := make([]internal.WordAlignment, 0, len(source))
	for _, src := range source {
		out = append(out, internal.WordAlignment{
			SourceWord:    src.Text,
			SourceIndex:   src.Index,
			TargetWords:   []string{},
			TargetIndices: []int{},
		})
	}
	return out
}
