package domain

import "math"

// Verdict is the human-readable health band derived from the global score.
type Verdict string

const (
	VerdictExcellent Verdict = "excellent"
	VerdictGood      Verdict = "bon"
	VerdictFair      Verdict = "correct"
	VerdictAttention Verdict = "attention"
	VerdictCritical  Verdict = "critique"
	VerdictUntested  Verdict = "non_testé"
)

// VerdictFor maps a global score to its band.
func VerdictFor(score int) Verdict {
	switch {
	case score >= 90:
		return VerdictExcellent
	case score >= 70:
		return VerdictGood
	case score >= 50:
		return VerdictFair
	case score >= 30:
		return VerdictAttention
	default:
		return VerdictCritical
	}
}

// Weights assigns each component family its importance in the global score.
type Weights map[ComponentKind]float64

// DefaultWeights favors storage and battery, which dominate resale risk.
func DefaultWeights() Weights {
	return Weights{
		ComponentStorage:  0.35,
		ComponentBattery:  0.25,
		ComponentCPU:      0.10,
		ComponentRAM:      0.10,
		ComponentScreen:   0.08,
		ComponentGPU:      0.04,
		ComponentNetwork:  0.02,
		ComponentFan:      0.02,
		ComponentKeyboard: 0.01,
		ComponentTouchpad: 0.01,
		ComponentUSB:      0.01,
		ComponentWebcam:   0.005,
		ComponentAudio:    0.005,
	}
}

// weightOf falls back to the default weight for families missing from w.
func (w Weights) weightOf(kind ComponentKind) float64 {
	if v, ok := w[kind]; ok {
		return v
	}
	return DefaultWeights()[kind]
}

// ComputeGlobalScore returns round(Σ w·s / Σ w) over the components
// present. Absent families contribute to neither sum.
func ComputeGlobalScore(components []ComponentResult, weights Weights) int {
	if len(components) == 0 {
		return 0
	}
	var totalWeighted, totalWeight float64
	for _, c := range components {
		w := weights.weightOf(c.Component)
		totalWeighted += float64(ClampScore(c.Score)) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		// every present family was weighted out; fall back to a plain mean
		for _, c := range components {
			totalWeighted += float64(ClampScore(c.Score))
		}
		totalWeight = float64(len(components))
	}
	return ClampScore(int(math.Round(totalWeighted / totalWeight)))
}

// Aggregate computes the global score and verdict. It is pure: identical
// inputs always produce identical output.
func Aggregate(components []ComponentResult, weights Weights) (int, Verdict) {
	if len(components) == 0 {
		return 0, VerdictUntested
	}
	score := ComputeGlobalScore(components, weights)
	return score, VerdictFor(score)
}
