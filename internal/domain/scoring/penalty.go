package scoring

import "math"

// badSectorPenalty costs 25 points for the first bad sector and grows
// logarithmically to a 60 point cap.
func badSectorPenalty(n int) float64 {
	if n <= 0 {
		return 0
	}
	return min(storageBadSectorLimit, 25+10*math.Log(float64(n)))
}

// linearPenalty deducts perUnit for each unit of excess, up to limit.
func linearPenalty(excess, perUnit, limit float64) float64 {
	if excess <= 0 {
		return 0
	}
	return min(limit, excess*perUnit)
}

// doublingPenalty starts at base for the first event and adds perDoubling
// each time the count doubles, up to limit.
func doublingPenalty(n int, base, perDoubling, limit float64) float64 {
	if n <= 0 {
		return 0
	}
	return min(limit, base+perDoubling*math.Log2(float64(n)))
}

// ratio returns num/den clamped to [0,1]; zero when den is not positive.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return max(0, min(num/den, 1))
}
