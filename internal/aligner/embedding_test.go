package aligner_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/lexalign/lexalign/internal"
	"github.com/lexalign/lexalign/internal/aligner"
	"github.com/lexalign/lexalign/internal/tokenizer"
)

// stubEmbedder returns a fixed vector per word, so cosine similarities (and
// therefore the matching) are fully controlled by the test.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := s.vectors[text]
		if !ok {
			// Unknown words embed near the origin of an unused axis.
			v = []float32{0, 0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("onnx session crashed")
}

func embeddingAlign(t *testing.T, e aligner.BatchEmbedder, source, target string) ([]internal.WordAlignment, error) {
	t.Helper()
	strategy := aligner.NewEmbedding(e, 0)
	src := tokenizer.Tokenize(source, internal.Latin)
	tgt := tokenizer.Tokenize(target, internal.Target)
	return strategy.Align(context.Background(), internal.Latin, src, tgt)
}

func TestEmbedding_OneToOneMatches(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{
		"Deus":   {1, 0, 0, 0},
		"caelum": {0, 1, 0, 0},
		"Dios":   {1, 0, 0, 0},
		"cielo":  {0, 1, 0, 0},
	}}

	out, err := embeddingAlign(t, stub, "Deus caelum", "Dios cielo")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}

	if !reflect.DeepEqual(out[0].TargetIndices, []int{0}) {
		t.Errorf("expected Deus -> index 0, got %v", out[0].TargetIndices)
	}
	if !reflect.DeepEqual(out[1].TargetIndices, []int{1}) {
		t.Errorf("expected caelum -> index 1, got %v", out[1].TargetIndices)
	}
}

func TestEmbedding_ManyToManyUnion(t *testing.T) {
	// Both "caeli" targets are nearest to the single source "caelum", so the
	// column pass attaches them both.
	stub := &stubEmbedder{vectors: map[string][]float32{
		"caelum": {0, 1, 0, 0},
		"heaven": {0, 0.9, 0.1, 0},
		"sky":    {0, 0.8, 0.2, 0},
	}}

	out, err := embeddingAlign(t, stub, "caelum", "heaven sky")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}

	if !reflect.DeepEqual(out[0].TargetIndices, []int{0, 1}) {
		t.Errorf("expected caelum -> [0 1], got %v", out[0].TargetIndices)
	}
}

func TestEmbedding_NoMatchBelowThreshold(t *testing.T) {
	// Orthogonal vectors: similarity 0 everywhere, below any threshold.
	stub := &stubEmbedder{vectors: map[string][]float32{
		"Deus": {1, 0, 0, 0},
		"blue": {0, 1, 0, 0},
	}}

	out, err := embeddingAlign(t, stub, "Deus", "blue")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}

	if len(out[0].TargetIndices) != 0 {
		t.Errorf("expected no matches, got %v", out[0].TargetIndices)
	}
	if out[0].Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", out[0].Confidence)
	}
}

func TestEmbedding_EmptyTargetFullCoverage(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{}}

	out, err := embeddingAlign(t, stub, "Deus caelum terra", "")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("expected 3 alignments, got %d", len(out))
	}
	for i, a := range out {
		if len(a.TargetIndices) != 0 {
			t.Errorf("position %d: expected empty targets, got %v", i, a.TargetIndices)
		}
	}
}

func TestEmbedding_Deterministic(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{
		"Deus":   {1, 0, 0, 0},
		"caelum": {0, 1, 0, 0},
		"terram": {0, 0, 1, 0},
		"Dios":   {0.9, 0.1, 0, 0},
		"cielo":  {0.1, 0.9, 0, 0},
		"tierra": {0, 0.1, 0.9, 0},
	}}

	first, err := embeddingAlign(t, stub, "Deus caelum terram", "Dios cielo tierra")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}
	second, err := embeddingAlign(t, stub, "Deus caelum terram", "Dios cielo tierra")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different alignments:\n%v\n%v", first, second)
	}
}

func TestEmbedding_InferenceErrorPropagates(t *testing.T) {
	_, err := embeddingAlign(t, failingEmbedder{}, "Deus", "Dios")
	if err == nil {
		t.Fatal("expected inference error to propagate to the caller")
	}
}
