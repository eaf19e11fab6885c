// Package aligner computes position-to-position word alignments between a
// passage in a source ancient language and an independently produced
// translation of it. Two interchangeable strategies exist: an embedding-backed
// one (preferred, requires a loaded ONNX model) and a deterministic heuristic
// one used whenever the model is unavailable or a specific call fails.
package aligner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lexalign/lexalign/internal"
	"github.com/lexalign/lexalign/internal/formatter"
	"github.com/lexalign/lexalign/internal/tokenizer"
)

// Method tags reported in AlignmentResult.Method.
const (
	MethodEmbedding = "embedding"
	MethodFallback  = "fallback_semantic"
)

// Strategy produces one WordAlignment per source token, in source order.
// Implementations must cover every source position; positions with no
// discovered correspondence carry empty target slices and confidence 0.
type Strategy interface {
	Name() string
	Align(ctx context.Context, lang internal.Language, source, target []tokenizer.Token) ([]internal.WordAlignment, error)
}

// Service is the alignment engine. It is constructed once at process start
// and is safe for concurrent use: it holds no mutable state beyond the
// read-only strategies it was built with.
type Service struct {
	primary  Strategy // nil when the embedding capability is unavailable
	fallback Strategy
	logger   *slog.Logger
	timeout  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for per-call fallback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithTimeout bounds each primary-strategy call. A timeout is treated the
// same as any other strategy failure: the heuristic runs instead.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService builds the engine. primary may be nil, in which case every call
// uses the heuristic fallback.
func NewService(primary Strategy, opts ...Option) *Service {
	s := &Service{
		primary:  primary,
		fallback: NewHeuristic(),
		logger:   slog.Default(),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Align aligns sourceText against targetText. It never returns an error:
// every failure mode degrades to the heuristic strategy, and malformed or
// empty input produces a structurally valid result with zero-confidence
// entries.
func (s *Service) Align(ctx context.Context, sourceText, targetText string, lang internal.Language) internal.AlignmentResult {
	source := tokenizer.Tokenize(sourceText, lang)
	target := tokenizer.Tokenize(targetText, internal.Target)

	alignments, method := s.run(ctx, lang, source, target)
	alignments = sanitize(alignments, source, len(target))

	return internal.AlignmentResult{
		Alignments:        alignments,
		Method:            method,
		AverageConfidence: averageConfidence(alignments),
	}
}

// AlignVariants aligns sourceText independently against the literal and
// dynamic translation variants and merges the two results into the
// position-indexed DualAlignment structure. The two variant alignments share
// no mutable state and run concurrently.
func (s *Service) AlignVariants(ctx context.Context, sourceText, literalText, dynamicText string, lang internal.Language) internal.DualAlignment {
	var literal, dynamic internal.AlignmentResult

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		literal = s.Align(ctx, sourceText, literalText, lang)
	}()
	go func() {
		defer wg.Done()
		dynamic = s.Align(ctx, sourceText, dynamicText, lang)
	}()
	wg.Wait()

	sourceCount := len(tokenizer.Tokenize(sourceText, lang))
	return formatter.Dual(literal, dynamic, sourceCount)
}

// run invokes the primary strategy when present, falling back to the
// heuristic on any error. The returned method tag names the strategy whose
// output is used.
func (s *Service) run(ctx context.Context, lang internal.Language, source, target []tokenizer.Token) ([]internal.WordAlignment, string) {
	if s.primary != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		alignments, err := s.primary.Align(callCtx, lang, source, target)
		cancel()
		if err == nil {
			return alignments, s.primary.Name()
		}
		s.logger.Warn("primary alignment strategy failed, using fallback",
			"strategy", s.primary.Name(), "error", err)
	}

	alignments, err := s.fallback.Align(ctx, lang, source, target)
	if err != nil {
		// The heuristic strategy cannot fail; guard anyway so the
		// full-coverage contract holds.
		s.logger.Error("fallback alignment strategy failed", "error", err)
		alignments = nil
	}
	return alignments, s.fallback.Name()
}

// sanitize enforces the output contract: exactly one alignment per source
// position, target indices within range, confidences clamped to [0, 1].
func sanitize(alignments []internal.WordAlignment, source []tokenizer.Token, targetLen int) []internal.WordAlignment {
	byIndex := make(map[int]internal.WordAlignment, len(alignments))
	for _, a := range alignments {
		if a.SourceIndex >= 0 && a.SourceIndex < len(source) {
			byIndex[a.SourceIndex] = a
		}
	}

	out := make([]internal.WordAlignment, len(source))
	for i, tok := range source {
		a, ok := byIndex[i]
		if !ok {
			out[i] = internal.WordAlignment{
				SourceWord:    tok.Text,
				SourceIndex:   i,
				TargetWords:   []string{},
				TargetIndices: []int{},
			}
			continue
		}

		words := make([]string, 0, len(a.TargetIndices))
		indices := make([]int, 0, len(a.TargetIndices))
		for pos, j := range a.TargetIndices {
			if j < 0 || j >= targetLen {
				continue
			}
			indices = append(indices, j)
			if pos < len(a.TargetWords) {
				words = append(words, a.TargetWords[pos])
			}
		}

		conf := a.Confidence
		if len(indices) == 0 {
			conf = 0
		}
		out[i] = internal.WordAlignment{
			SourceWord:    tok.Text,
			SourceIndex:   i,
			TargetWords:   words,
			TargetIndices: indices,
			Confidence:    clamp01(conf),
		}
	}
	return out
}

func averageConfidence(alignments []internal.WordAlignment) float64 {
	if len(alignments) == 0 {
		return 0
	}
	var sum float64
	for _, a := range alignments {
		sum += a.Confidence
	}
	return sum / float64(len(alignments))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
