// Package dice provides the randomness abstraction used to sample fishing
// casts.
package dice

// Source is the randomness provider for chance rolls and attempt orders.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// Roll reports whether an event of probability p happens.
//
// Postcondition: always false for p <= 0 and always true for p >= 1.
func Roll(src Source, p float64) bool {
	return src.Float64() < p
}

// Order returns a uniformly random permutation of [0, n).
//
// Precondition: n >= 0.
// Postcondition: len(result) == n and every index appears exactly once.
func Order(src Source, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}
