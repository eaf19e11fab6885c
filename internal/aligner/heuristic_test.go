package aligner_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/lexalign/lexalign/internal"
	"github.com/lexalign/lexalign/internal/aligner"
	"github.com/lexalign/lexalign/internal/tokenizer"
)

func heuristicAlign(t *testing.T, source, target string, lang internal.Language) []internal.WordAlignment {
	t.Helper()
	h := aligner.NewHeuristic()
	src := tokenizer.Tokenize(source, lang)
	tgt := tokenizer.Tokenize(target, internal.Target)
	out, err := h.Align(context.Background(), lang, src, tgt)
	if err != nil {
		t.Fatalf("heuristic align failed: %v", err)
	}
	return out
}

func TestHeuristic_PatternMatch(t *testing.T) {
	// "Deus" must align to "Dios" through the pattern table, not by position.
	out := heuristicAlign(t, "Deus caelum", "Dios cielo", internal.Latin)

	if len(out) != 2 {
		t.Fatalf("expected 2 alignments, got %d", len(out))
	}

	deus := out[0]
	if deus.SourceWord != "Deus" {
		t.Fatalf("expected source word Deus, got %q", deus.SourceWord)
	}
	if !reflect.DeepEqual(deus.TargetIndices, []int{0}) {
		t.Errorf("expected Deus to align to index 0, got %v", deus.TargetIndices)
	}
	if !reflect.DeepEqual(deus.TargetWords, []string{"Dios"}) {
		t.Errorf("expected Deus to align to Dios, got %v", deus.TargetWords)
	}
	if deus.Confidence != 0.7 {
		t.Errorf("expected pattern confidence 0.7, got %v", deus.Confidence)
	}

	caelum := out[1]
	if !reflect.DeepEqual(caelum.TargetWords, []string{"cielo"}) {
		t.Errorf("expected caelum to align to cielo, got %v", caelum.TargetWords)
	}
	if caelum.Confidence != 0.7 {
		t.Errorf("expected pattern confidence 0.7, got %v", caelum.Confidence)
	}
}

func TestHeuristic_PatternMatchManyToMany(t *testing.T) {
	// Every target token containing an expected equivalent is recorded.
	out := heuristicAlign(t, "deus", "god dios godly", internal.Latin)

	if !reflect.DeepEqual(out[0].TargetIndices, []int{0, 1, 2}) {
		t.Errorf("expected all three targets recorded, got %v", out[0].TargetIndices)
	}
	if out[0].Confidence != 0.7 {
		t.Errorf("expected pattern confidence 0.7, got %v", out[0].Confidence)
	}
}

func TestHeuristic_CognateMatch(t *testing.T) {
	// "gloria" is not in the pattern table; "glorias" is close enough in
	// spelling to qualify as a cognate.
	out := heuristicAlign(t, "gloria", "glorias", internal.Latin)

	if !reflect.DeepEqual(out[0].TargetIndices, []int{0}) {
		t.Errorf("expected cognate match at index 0, got %v", out[0].TargetIndices)
	}
	if out[0].Confidence != 0.3 {
		t.Errorf("expected cognate confidence 0.3, got %v", out[0].Confidence)
	}
}

func TestHeuristic_CognateRequiresMinLength(t *testing.T) {
	// Two-rune words never qualify as cognates; position fallback fires
	// instead (and also lands on index 0 here).
	out := heuristicAlign(t, "ab", "ab cd", internal.Latin)

	if out[0].Confidence != 0.3 {
		t.Errorf("expected position-tier confidence 0.3, got %v", out[0].Confidence)
	}
	if !reflect.DeepEqual(out[0].TargetIndices, []int{0}) {
		t.Errorf("expected position fallback to index 0, got %v", out[0].TargetIndices)
	}
}

func TestHeuristic_PositionFallbackInvariant(t *testing.T) {
	// Three source tokens too short for cognates and absent from the
	// pattern table: target index must be round(i*M/N) clipped into range.
	out := heuristicAlign(t, "ab cd ef", "uno dos tres cuatro", internal.Latin)

	want := [][]int{{0}, {1}, {3}}
	for i, a := range out {
		if !reflect.DeepEqual(a.TargetIndices, want[i]) {
			t.Errorf("position %d: expected %v, got %v", i, want[i], a.TargetIndices)
		}
		if a.Confidence != 0.3 {
			t.Errorf("position %d: expected confidence 0.3, got %v", i, a.Confidence)
		}
	}
}

func TestHeuristic_EmptyTarget(t *testing.T) {
	out := heuristicAlign(t, "Deus caelum terra", "", internal.Latin)

	if len(out) != 3 {
		t.Fatalf("expected 3 alignments, got %d", len(out))
	}
	for i, a := range out {
		if len(a.TargetIndices) != 0 || len(a.TargetWords) != 0 {
			t.Errorf("position %d: expected empty targets, got %v", i, a.TargetIndices)
		}
		if a.Confidence != 0 {
			t.Errorf("position %d: expected confidence 0, got %v", i, a.Confidence)
		}
	}
}

func TestHeuristic_PatternBeatsCognate(t *testing.T) {
	// "terra" vs "tierra" would pass the cognate test, but the pattern tier
	// runs first and reports its higher confidence.
	out := heuristicAlign(t, "terra", "tierra", internal.Latin)

	if out[0].Confidence != 0.7 {
		t.Errorf("expected pattern confidence 0.7, got %v", out[0].Confidence)
	}
}

func TestHeuristic_SanskritPatterns(t *testing.T) {
	// Sanskrit lemma table is consulted for sanskrit sources. Tokens are
	// built directly because the tokenizer splits transliterated compounds.
	h := aligner.NewHeuristic()
	src := []tokenizer.Token{{Text: "agni", Index: 0}}
	tgt := tokenizer.Tokenize("the fire burns", internal.Target)

	out, err := h.Align(context.Background(), internal.Sanskrit, src, tgt)
	if err != nil {
		t.Fatalf("heuristic align failed: %v", err)
	}
	if !reflect.DeepEqual(out[0].TargetIndices, []int{1}) {
		t.Errorf("expected agni to align to fire, got %v", out[0].TargetIndices)
	}
	if out[0].Confidence != 0.7 {
		t.Errorf("expected pattern confidence 0.7, got %v", out[0].Confidence)
	}
}

func TestHeuristic_Deterministic(t *testing.T) {
	first := heuristicAlign(t, "Terra autem erat inanis et vacua", "But the earth was empty and void", internal.Latin)
	second := heuristicAlign(t, "Terra autem erat inanis et vacua", "But the earth was empty and void", internal.Latin)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different alignments:\n%v\n%v", first, second)
	}
}

func TestHeuristic_FullCoverage(t *testing.T) {
	out := heuristicAlign(t, "In principio creavit Deus caelum et terram", "En el principio creó Dios el cielo y la tierra", internal.Latin)

	src := tokenizer.Tokenize("In principio creavit Deus caelum et terram", internal.Latin)
	if len(out) != len(src) {
		t.Fatalf("expected %d alignments, got %d", len(src), len(out))
	}
	for i, a := range out {
		if a.SourceIndex != i {
			t.Errorf("alignment %d has source index %d", i, a.SourceIndex)
		}
		if a.Confidence < 0 || a.Confidence > 1 {
			t.Errorf("confidence out of range: %v", a.Confidence)
		}
	}
}
