package signal

// Blend pulls a raw score toward the neutral baseline in proportion to
// how little evidence supports it:
//
//	blended = 50 + (raw - 50) * confidence
//
// Zero confidence yields exactly the baseline; confidence 1.0 passes the
// raw score through unchanged.
func Blend(raw, confidence float64) float64 {
	c := clamp(confidence, 0, 1)
	return clampScore(NeutralScore + (raw-NeutralScore)*c)
}

// EvidenceConfidence maps an evidence count to a confidence weight:
// linear up to the extractor's target count, then capped at 1.0.
// Confidence is monotonically non-decreasing in count.
func EvidenceConfidence(count, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return clamp(count/target, 0, 1)
}
