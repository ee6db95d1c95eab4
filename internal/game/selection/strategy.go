// Package selection computes order-independent selection probabilities.
//
// Given independent per-candidate success chances p, a selection strategy
// reports for each candidate the probability that it is the first success when
// all candidates are attempted in a uniformly random order. The sum of the
// returned weights equals 1 - Π(1-p[i]), the chance that anything succeeds.
package selection

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooLarge is returned when an input is beyond the size a strategy can
// evaluate in practical time.
var ErrTooLarge = errors.New("selection: input too large")

// ErrInvalidProbability is returned when an input chance is NaN or outside [0, 1].
var ErrInvalidProbability = errors.New("selection: probability outside [0, 1]")

// Strategy computes selection weights for one precedence group.
//
// Implementations MUST be pure: p is never modified and concurrent calls are safe.
type Strategy interface {
	// Probabilities returns w with len(w) == len(p), where w[i] is the probability
	// that candidate i is the one selected.
	//
	// Precondition: every p[i] is in [0, 1].
	// Postcondition: sum(w) == 1 - Π(1-p[i]) within floating-point tolerance.
	Probabilities(p []float64) ([]float64, error)
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(p []float64) ([]float64, error)

// Probabilities calls f(p).
func (f StrategyFunc) Probabilities(p []float64) ([]float64, error) { return f(p) }

func validate(p []float64) error {
	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: p[%d] = %v", ErrInvalidProbability, i, v)
		}
	}
	return nil
}

// AnyChance returns 1 - Π(1-p[i]), the probability that at least one
// candidate succeeds.
func AnyChance(p []float64) float64 {
	none := 1.0
	for _, v := range p {
		none *= 1 - v
	}
	return 1 - none
}

func sum(w []float64) float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
