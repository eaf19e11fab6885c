// Package formatter assembles the externally consumed DualAlignment
// structure from two independently computed per-variant alignment results.
package formatter

import "github.com/lexalign/lexalign/internal"

// Dual merges the literal-variant and dynamic-variant alignment results into
// two position-indexed arrays of exactly sourceTokenCount entries each.
// Every slot starts as a placeholder (empty targets, confidence 0) and is
// overwritten by the alignment for that source position when one exists;
// alignments whose source index falls outside the array are silently
// dropped. Callers can therefore index either array by source position
// without bounds or nil checks.
func Dual(literal, dynamic internal.AlignmentResult, sourceTokenCount int) internal.DualAlignment {
	return internal.DualAlignment{
		Literal:           positionIndexed(literal, sourceTokenCount),
		Dynamic:           positionIndexed(dynamic, sourceTokenCount),
		Method:            literal.Method,
		LiteralConfidence: literal.AverageConfidence,
		DynamicConfidence: dynamic.AverageConfidence,
		AverageConfidence: (literal.AverageConfidence + dynamic.AverageConfidence) / 2,
	}
}

func positionIndexed(result internal.AlignmentResult, sourceTokenCount int) []internal.AlignmentEntry {
	entries := make([]internal.AlignmentEntry, sourceTokenCount)
	for i := range entries {
		entries[i] = internal.AlignmentEntry{
			TargetWords:   []string{},
			TargetIndices: []int{},
		}
	}

	for _, a := range result.Alignments {
		if a.SourceIndex < 0 || a.SourceIndex >= sourceTokenCount {
			continue
		}
		entries[a.SourceIndex] = internal.AlignmentEntry{
			TargetWords:   a.TargetWords,
			TargetIndices: a.TargetIndices,
			Confidence:    a.Confidence,
		}
	}
	return entries
}
