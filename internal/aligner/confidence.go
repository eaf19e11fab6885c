package aligner

import "math"

// positionBonusWeight scales the position-consistency bonus added on top of
// the base embedding confidence.
const positionBonusWeight = 0.3

// embeddingConfidence scores one embedding-produced alignment.
//
// The base term 1/(1+k), where k is the number of attached target tokens,
// deliberately penalizes many-to-many spread and rewards clean 1:1 mappings.
// On top of that, a bonus up to positionBonusWeight is granted when the
// average matched target position sits close to where the source position
// would land if scaled linearly across the target sequence. The result is
// capped at 1. A source token with no matches scores 0.
func embeddingConfidence(sourceIndex, sourceLen int, targetIndices []int, targetLen int) float64 {
	if len(targetIndices) == 0 {
		return 0
	}

	base := 1.0 / float64(1+len(targetIndices))

	var sum float64
	for _, j := range targetIndices {
		sum += float64(j)
	}
	avgPos := sum / float64(len(targetIndices))

	var expectedPos float64
	if sourceLen > 0 {
		expectedPos = float64(sourceIndex) / float64(sourceLen) * float64(targetLen)
	}

	denom := float64(targetLen)
	if denom < 1 {
		denom = 1
	}
	diff := math.Abs(avgPos-expectedPos) / denom
	bonus := math.Max(0, 1-diff) * positionBonusWeight

	return math.Min(1.0, base+bonus)
}
