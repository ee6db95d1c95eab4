package selection

// Symmetric computes the same weights as Permutation in O(n³) time.
//
// In a uniformly random order, candidate i sits at position k with
// probability 1/n, and its predecessors are then a uniformly random k-subset
// of the other candidates. Averaging Π(1-p[j]) over those subsets gives the
// elementary symmetric polynomial e_k of the remaining failure chances,
// divided by C(n-1, k):
//
//	w[i] = p[i] · (1/n) · Σ_k e_k(q without i) / C(n-1, k)
type Symmetric struct{}

// Probabilities implements Strategy.
//
// Precondition: every p[i] is in [0, 1].
// Postcondition: len(result) == len(p); agrees with Permutation to within 1e-9.
func (Symmetric) Probabilities(p []float64) ([]float64, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	n := len(p)
	w := make([]float64, n)
	if n == 0 {
		return w, nil
	}

	binom := binomialRow(n - 1)
	e := make([]float64, n)
	for i := range p {
		if p[i] == 0 {
			continue
		}
		// e[k] = elementary symmetric polynomial of degree k over q[j], j != i.
		for k := range e {
			e[k] = 0
		}
		e[0] = 1
		deg := 0
		for j, pj := range p {
			if j == i {
				continue
			}
			q := 1 - pj
			deg++
			for k := deg; k > 0; k-- {
				e[k] += e[k-1] * q
			}
		}
		avg := 0.0
		for k := 0; k < n; k++ {
			avg += e[k] / binom[k]
		}
		w[i] = p[i] * avg / float64(n)
	}
	return w, nil
}

// binomialRow returns C(m, k) for k in [0, m] as float64.
func binomialRow(m int) []float64 {
	row := make([]float64, m+1)
	row[0] = 1
	for k := 1; k <= m; k++ {
		row[k] = row[k-1] * float64(m-k+1) / float64(k)
	}
	return row
}
