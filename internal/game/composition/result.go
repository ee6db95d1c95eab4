package composition

import "github.com/cory-johannsen/fishcomp/internal/game/fishing"

// Entry is one candidate's share of an area's catches.
type Entry struct {
	Candidate  fishing.Candidate
	Precedence int
	// Chance is the raw per-attempt success chance fed to selection.
	Chance float64
	// Weight is the within-group selection probability.
	Weight float64
	// Probability is Weight scaled by the chance that no earlier group caught.
	Probability float64
	Value       float64
	XP          float64
}

// Result is the catch composition of one area.
//
// Postcondition (for results built by Engine): Total() + Residual == 1 within
// floating-point tolerance, and Total() <= 1.
type Result struct {
	LocationID string
	// AreaID is "" for the none bucket.
	AreaID  string
	Entries []Entry
	// Residual is the chance that nothing is caught.
	Residual float64
}

// Empty reports whether the area has no catchable entries.
func (r Result) Empty() bool {
	return len(r.Entries) == 0
}

// Total returns the chance that something is caught.
func (r Result) Total() float64 {
	total := 0.0
	for _, e := range r.Entries {
		total += e.Probability
	}
	return total
}

// ExpectedValue returns the probability-weighted coin value of one cast.
func (r Result) ExpectedValue() float64 {
	total := 0.0
	for _, e := range r.Entries {
		total += e.Probability * e.Value
	}
	return total
}

// ExpectedXP returns the probability-weighted experience of one cast.
func (r Result) ExpectedXP() float64 {
	total := 0.0
	for _, e := range r.Entries {
		total += e.Probability * e.XP
	}
	return total
}

// LocationResult holds the area compositions of one location.
type LocationResult struct {
	// QueryID correlates the result with the engine's log lines.
	QueryID    string
	LocationID string
	Areas      []Result
}
