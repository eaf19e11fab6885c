package internal

// Language identifies the source-language family of a passage.
type Language string

const (
	Latin    Language = "latin"
	Sanskrit Language = "sanskrit"
	// Target marks generic target-language text (whitespace tokenization only).
	Target Language = "target"
)

// ParseLanguage maps a user-supplied tag to a Language. Unknown tags fall
// back to Target so tokenization still succeeds.
func ParseLanguage(tag string) Language {
	switch tag {
	case "latin", "la":
		return Latin
	case "sanskrit", "sa":
		return Sanskrit
	default:
		return Target
	}
}

// WordAlignment maps one source-token position to zero or more target-token
// positions. TargetWords and TargetIndices are parallel slices in the order
// the producing strategy emitted them.
type WordAlignment struct {
	SourceWord    string   `json:"source_word"`
	SourceIndex   int      `json:"source_index"`
	TargetWords   []string `json:"target_words"`
	TargetIndices []int    `json:"target_indices"`
	Confidence    float64  `json:"confidence"`
}

// AlignmentResult holds one alignment per source position, in source order.
type AlignmentResult struct {
	Alignments        []WordAlignment `json:"alignments"`
	Method            string          `json:"method"`
	AverageConfidence float64         `json:"average_confidence"`
}

// AlignmentEntry is one slot of a position-indexed alignment array. Slots
// with no discovered correspondence carry empty slices and confidence 0.
type AlignmentEntry struct {
	TargetWords   []string `json:"target_words"`
	TargetIndices []int    `json:"target_indices"`
	Confidence    float64  `json:"confidence"`
}

// DualAlignment is the externally consumed structure: two position-indexed
// arrays of equal length (one per translation variant), indexed by source
// token position.
type DualAlignment struct {
	Literal           []AlignmentEntry `json:"literal"`
	Dynamic           []AlignmentEntry `json:"dynamic"`
	Method            string           `json:"method"`
	LiteralConfidence float64          `json:"literal_confidence"`
	DynamicConfidence float64          `json:"dynamic_confidence"`
	AverageConfidence float64          `json:"average_confidence"`
}
