package selection

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Defaults for Permutation. Enumeration cost is n!·n: 9 candidates is about
// 3.3M steps, 10 is 36M and grows by a factor of n from there.
const (
	DefaultMaxSize           = 9
	DefaultParallelThreshold = 7
	DefaultWorkers           = 12
)

// Permutation is the exact reference strategy. It enumerates all n!
// attempt orders and, for every candidate, accumulates
// p[i]·Π(1-p[j]) over the candidates j preceding it.
//
// Inputs at or above ParallelThreshold are split into Workers contiguous
// ranges of lexicographic permutation ranks, summed concurrently and merged
// by element-wise addition.
type Permutation struct {
	// MaxSize is the largest input accepted; larger inputs fail with ErrTooLarge.
	MaxSize int
	// ParallelThreshold is the smallest input evaluated concurrently.
	ParallelThreshold int
	// Workers is the number of concurrent ranges; <= 1 disables concurrency.
	Workers int
}

// NewPermutation returns a Permutation using the package defaults.
func NewPermutation() *Permutation {
	return &Permutation{
		MaxSize:           DefaultMaxSize,
		ParallelThreshold: DefaultParallelThreshold,
		Workers:           DefaultWorkers,
	}
}

// Probabilities implements Strategy.
//
// Precondition: every p[i] is in [0, 1].
// Postcondition: returns ErrTooLarge (wrapped) when len(p) > MaxSize without
// doing any enumeration; otherwise len(result) == len(p).
func (s *Permutation) Probabilities(p []float64) ([]float64, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	n := len(p)
	if n == 0 {
		return []float64{}, nil
	}
	if n > s.MaxSize {
		return nil, fmt.Errorf("%w: %d candidates exceeds exact limit %d", ErrTooLarge, n, s.MaxSize)
	}

	total := factorial(n)
	var sums []float64
	if s.Workers <= 1 || n < s.ParallelThreshold {
		sums = rangeSum(p, 0, total)
	} else {
		sums = s.parallelSum(p, total)
	}
	for i := range sums {
		sums[i] /= float64(total)
	}
	return sums, nil
}

func (s *Permutation) parallelSum(p []float64, total int) []float64 {
	workers := min(s.Workers, total)
	partials := make([][]float64, workers)

	var g errgroup.Group
	for i := range workers {
		start := total * i / workers
		end := total * (i + 1) / workers
		g.Go(func() error {
			partials[i] = rangeSum(p, start, end)
			return nil
		})
	}
	// rangeSum cannot fail.
	_ = g.Wait()

	merged := make([]float64, len(p))
	for _, part := range partials {
		for i, v := range part {
			merged[i] += v
		}
	}
	return merged
}

// rangeSum accumulates the unnormalised weights of the permutations whose
// lexicographic rank lies in [start, end).
func rangeSum(p []float64, start, end int) []float64 {
	sums := make([]float64, len(p))
	if start >= end {
		return sums
	}
	perm := unrank(len(p), start)
	for rank := start; rank < end; rank++ {
		carry := 1.0
		for _, idx := range perm {
			sums[idx] += p[idx] * carry
			carry *= 1 - p[idx]
		}
		if rank+1 < end {
			nextPermutation(perm)
		}
	}
	return sums
}

// unrank returns the permutation of [0, n) with the given lexicographic rank.
//
// Precondition: 0 <= rank < n!.
func unrank(n, rank int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	perm := make([]int, 0, n)
	for i := n; i > 0; i-- {
		f := factorial(i - 1)
		k := rank / f
		rank %= f
		perm = append(perm, pool[k])
		pool = append(pool[:k], pool[k+1:]...)
	}
	return perm
}

// nextPermutation advances a to its lexicographic successor in place and
// reports whether one existed.
func nextPermutation(a []int) bool {
	i := len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(a) - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	for l, r := i+1, len(a)-1; l < r; l, r = l+1, r-1 {
		a[l], a[r] = a[r], a[l]
	}
	return true
}
