package tokenizer_test

import (
	"reflect"
	"testing"

	"github.com/lexalign/lexalign/internal"
	"github.com/lexalign/lexalign/internal/tokenizer"
)

func words(tokens []tokenizer.Token) []string {
	return tokenizer.Words(tokens)
}

func TestTokenize_EmptyInput(t *testing.T) {
	for _, lang := range []internal.Language{internal.Latin, internal.Sanskrit, internal.Target} {
		if got := tokenizer.Tokenize("", lang); len(got) != 0 {
			t.Errorf("lang %s: expected no tokens for empty input, got %v", lang, got)
		}
		if got := tokenizer.Tokenize("   \t\n ", lang); len(got) != 0 {
			t.Errorf("lang %s: expected no tokens for whitespace input, got %v", lang, got)
		}
	}
}

func TestTokenize_StripsPunctuation(t *testing.T) {
	got := words(tokenizer.Tokenize("In principio, creavit Deus caelum; et terram!", internal.Latin))
	want := []string{"In", "principio", "creavit", "Deus", "caelum", "et", "terram"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_CollapsesWhitespace(t *testing.T) {
	got := words(tokenizer.Tokenize("Deus   \t caelum\n\nterra", internal.Latin))
	want := []string{"Deus", "caelum", "terra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_LatinEncliticSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "que at end of word",
			text: "arma virumque cano",
			want: []string{"arma", "virum", "que", "cano"},
		},
		{
			name: "que at end of text",
			text: "senatus populusque",
			want: []string{"senatus", "populus", "que"},
		},
		{
			name: "ve suffix",
			text: "plus minusve",
			want: []string{"plus", "minus", "ve"},
		},
		{
			name: "short word untouched",
			text: "que",
			want: []string{"que"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := words(tokenizer.Tokenize(tt.text, internal.Latin))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTokenize_SanskritBoundaryInsertion(t *testing.T) {
	// A vowel followed by a syllable-initial consonant starts a new token.
	got := words(tokenizer.Tokenize("rāma", internal.Sanskrit))
	want := []string{"rā", "ma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_SanskritPlainVowels(t *testing.T) {
	got := words(tokenizer.Tokenize("deva", internal.Sanskrit))
	want := []string{"de", "va"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_TargetWhitespaceOnly(t *testing.T) {
	// Target text must not get enclitic or compound treatment.
	got := words(tokenizer.Tokenize("the kingdomque of heaven", internal.Target))
	want := []string{"the", "kingdomque", "of", "heaven"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_UnknownLanguageFallsBack(t *testing.T) {
	got := words(tokenizer.Tokenize("uno dos tres", internal.Language("klingon")))
	want := []string{"uno", "dos", "tres"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_IndicesAreSequential(t *testing.T) {
	tokens := tokenizer.Tokenize("Terra autem erat inanis et vacua", internal.Latin)
	for i, tok := range tokens {
		if tok.Index != i {
			t.Errorf("token %d has index %d", i, tok.Index)
		}
		if tok.Text == "" {
			t.Errorf("token %d is empty", i)
		}
	}
}
