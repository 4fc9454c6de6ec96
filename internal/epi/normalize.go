package epi

import "math"

// NormalizeTolerance is how far the raw sum may stray from 1 before
// rescaling kicks in. Tiny floating drift below this is passed through
// untouched rather than force-corrected.
const NormalizeTolerance = 0.01

// Normalize rescales raw compartment fractions so they sum to 1.
//
// If the sum is within NormalizeTolerance of 1 the input passes through
// unchanged. A non-positive sum returns ErrZeroInitial instead of
// propagating a division by zero. The input slice is never mutated.
func Normalize(raw []float64) (State, error) {
	sum := 0.0
	for _, v := range raw {
		sum += v
	}

	if sum <= 0 {
		return nil, ErrZeroInitial
	}

	out := make(State, len(raw))
	if math.Abs(sum-1) <= NormalizeTolerance {
		copy(out, raw)
		return out, nil
	}

	for i, v := range raw {
		out[i] = v / sum
	}
	return out, nil
}
