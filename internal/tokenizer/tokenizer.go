// Package tokenizer segments raw passage text into ordered word tokens,
// tailored to the source language family. Latin text has common enclitic
// suffixes (-que, -ve, -ne) split off their stems; transliterated Sanskrit
// gets token boundaries inserted between a vowel and a following
// syllable-initial consonant to approximate compound segmentation. Target
// language text is split on whitespace only.
package tokenizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lexalign/lexalign/internal"
)

// Token is a single word-like unit with its zero-based position in the
// sequence it was cut from. Tokens are never mutated after creation.
type Token struct {
	Text  string
	Index int
}

var (
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// encliticRe splits the common Latin enclitics off stems longer than
	// the suffix itself, e.g. "populusque" → "populus que".
	encliticRe = regexp.MustCompile(`(\p{L}{3,})(que|ve|ne)(\s|$)`)

	// sanskritBoundaryRe inserts a boundary between a vowel (plain or with
	// IAST macron) and a following consonant that conventionally starts a
	// new syllable in transliterated compounds.
	sanskritBoundaryRe = regexp.MustCompile(`([aeiouāīūēō])([kgṅcjñṭḍṇtdnpbmyrlvśṣsh])`)
)

// Tokenize cuts text into ordered, non-empty word tokens for the given
// language. Empty input yields an empty slice; an unrecognized language
// behaves like internal.Target (plain whitespace split). It never fails.
func Tokenize(text string, lang internal.Language) []Token {
	cleaned := normalize(text)
	if cleaned == "" {
		return nil
	}

	var words []string
	switch lang {
	case internal.Latin:
		words = splitLatin(cleaned)
	case internal.Sanskrit:
		words = splitSanskrit(cleaned)
	default:
		words = strings.Fields(cleaned)
	}

	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		tokens = append(tokens, Token{Text: w, Index: len(tokens)})
	}
	return tokens
}

// Words returns just the token texts, in order.
func Words(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

// normalize applies NFC, strips punctuation and collapses whitespace runs.
func normalize(text string) string {
	text = norm.NFC.String(text)
	text = punctRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func splitLatin(text string) []string {
	text = encliticRe.ReplaceAllString(text, "$1 $2$3")
	return strings.Fields(text)
}

func splitSanskrit(text string) []string {
	text = sanskritBoundaryRe.ReplaceAllString(text, "$1 $2")
	return strings.Fields(text)
}
