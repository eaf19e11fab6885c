package aligner

import "github.com/lexalign/lexalign/internal"

// Curated lemma tables for the pattern-dictionary tier. Keys are lowercase
// source lemmas; values are lowercase substrings expected in target tokens
// carrying the same meaning (Spanish and English spellings, matching the
// translation variants the study application produces).
//
// The tables are deliberately small built-in fixtures covering the
// highest-frequency vocabulary of the corpora; they are not a dictionary.

var latinPatterns = map[string][]string{
	"deus":    {"dios", "god", "divine"},
	"terra":   {"tierra", "earth", "ground"},
	"caelum":  {"cielo", "heaven", "sky"},
	"aqua":    {"agua", "water"},
	"ignis":   {"fuego", "fire"},
	"homo":    {"hombre", "man", "human"},
	"femina":  {"mujer", "woman"},
	"rex":     {"rey", "king"},
	"regina":  {"reina", "queen"},
	"dominus": {"señor", "lord"},
	"verbum":  {"palabra", "word"},
	"lux":     {"luz", "light"},
}

var sanskritPatterns = map[string][]string{
	"deva":    {"dios", "god", "deity"},
	"agni":    {"fuego", "fire"},
	"jala":    {"agua", "water"},
	"surya":   {"sol", "sun"},
	"chandra": {"luna", "moon"},
	"prithvi": {"tierra", "earth"},
	"vayu":    {"viento", "wind"},
	"raja":    {"rey", "king"},
	"atman":   {"alma", "soul", "self"},
}

// patternTable returns the lemma table for the given source language.
// Generic target text has no table, so the pattern tier never fires for it.
func patternTable(lang internal.Language) map[string][]string {
	switch lang {
	case internal.Latin:
		return latinPatterns
	case internal.Sanskrit:
		return sanskritPatterns
	default:
		return nil
	}
}
