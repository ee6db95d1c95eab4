package selection

import "fmt"

// Biased returns selection weights for a group fished with bait that favours
// one candidate.
//
// The group is evaluated in rounds, each an ordinary random-order pass
// weighted by s. A round that lands the target, or lands nothing, ends the
// group. A round that lands any other candidate is thrown back and the group
// is re-run, at most rerolls times; the last permitted round is always kept.
// With t = w[target] and u = sum(w) - t:
//
//	target:  t · (1 + u + u² + … + u^rerolls)
//	other j: w[j] · u^rerolls
//
// Precondition: 0 <= target < len(p); rerolls >= 0.
// Postcondition: rerolls == 0 returns s.Probabilities(p) unchanged; the sum
// of the result never exceeds 1.
func Biased(s Strategy, p []float64, target, rerolls int) ([]float64, error) {
	if target < 0 || target >= len(p) {
		return nil, fmt.Errorf("selection: target index %d out of range [0, %d)", target, len(p))
	}
	if rerolls < 0 {
		return nil, fmt.Errorf("selection: rerolls must be >= 0, got %d", rerolls)
	}
	w, err := s.Probabilities(p)
	if err != nil {
		return nil, err
	}

	t := w[target]
	u := sum(w) - t
	if u < 0 {
		u = 0
	}

	series, last := 0.0, 1.0
	for r := 0; r <= rerolls; r++ {
		series += last
		if r < rerolls {
			last *= u
		}
	}

	out := make([]float64, len(w))
	for j, v := range w {
		if j == target {
			out[j] = t * series
			continue
		}
		out[j] = v * last
	}
	return out, nil
}
