package sheet

// Unbounded is the upper bound for counters without a maximum, such as story
// tokens and item quantities. It is also the largest magnitude the normalizer
// keeps, since 2^53 is the last integer a JSON number holds exactly.
const Unbounded = 1 << 53

// AdjustCounter returns current+delta clamped to [lo, hi]. Incrementing at hi
// or decrementing at lo leaves the value unchanged.
func AdjustCounter(current, delta, lo, hi int) int {
	if hi < lo {
		hi = lo
	}

	next := current
	switch {
	case delta > 0 && current > hi-delta:
		next = hi
	case delta < 0 && current < lo-delta:
		next = lo
	default:
		next = current + delta
	}
	return clamp(next, lo, hi)
}

// ResolveMarkerValue maps a click on the marker at clickedIndex (0-based) to a
// new counter value. Clicking the highest filled marker clears it; any other
// click fills up to and including the clicked marker.
func ResolveMarkerValue(current, clickedIndex int) int {
	if clickedIndex < 0 {
		return current
	}
	if current == clickedIndex+1 {
		return clickedIndex
	}
	return clickedIndex + 1
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
