// Package simulate samples individual fishing casts by the same rules the
// composition engine solves analytically, so that resolved probabilities
// can be checked against observed catch frequencies.
//
// A cast walks the precedence groups in ascending order. Within a group the
// candidates are attempted in a random order and the first successful chance
// roll is the catch. With targeted bait, a round that catches a non-target
// candidate is rerolled while rerolls remain. A group that catches nothing
// passes the cast on to the next group.
package simulate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fishcomp/internal/game/composition"
	"github.com/cory-johannsen/fishcomp/internal/game/dice"
	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

// ErrNoCasts is returned when a simulation is asked for fewer than one cast.
var ErrNoCasts = errors.New("simulate: casts must be >= 1")

// Tally holds the outcome counts of simulated casts in one area.
//
// Invariant: Misses + Σ Counts == Casts.
type Tally struct {
	LocationID string
	AreaID     string
	// Candidates is in the entry order of the engine's Result for the area.
	Candidates []fishing.Candidate
	Counts     []int
	Misses     int
	Casts      int
}

// Frequency returns the observed catch rate of Candidates[i].
func (t Tally) Frequency(i int) float64 {
	return float64(t.Counts[i]) / float64(t.Casts)
}

// MissRate returns the observed rate of casts that caught nothing.
func (t Tally) MissRate() float64 {
	return float64(t.Misses) / float64(t.Casts)
}

// group is one precedence group prepared for sampling.
type group struct {
	offset  int
	chances []float64
	target  int
}

// Simulator samples casts against an engine's catalog, filter and options.
type Simulator struct {
	engine *composition.Engine
	src    dice.Source
	logger *zap.Logger
}

// New creates a Simulator.
//
// Precondition: engine, src and logger must be non-nil.
func New(engine *composition.Engine, src dice.Source, logger *zap.Logger) *Simulator {
	return &Simulator{engine: engine, src: src, logger: logger}
}

// Area simulates casts in one area of loc.
//
// Postcondition: an area without eligible candidates of its own yields a
// Tally with no candidates where every cast misses.
func (s *Simulator) Area(loc *fishing.Location, areaID string, ctx fishing.Context, casts int) (Tally, error) {
	if casts < 1 {
		return Tally{}, ErrNoCasts
	}
	t := Tally{LocationID: loc.ID, AreaID: areaID, Casts: casts}

	var groups []group
	for _, g := range composition.GroupByPrecedence(s.engine.Eligible(loc, areaID, ctx)) {
		prepared := group{offset: len(t.Candidates), chances: make([]float64, len(g)), target: -1}
		for i, c := range g {
			chance, err := fishing.Chance(c, ctx)
			if err != nil {
				return Tally{}, fmt.Errorf("location %q area %q: %w", loc.ID, areaID, err)
			}
			prepared.chances[i] = chance
			if prepared.target < 0 && ctx.TargetsReward(c.PrimaryID()) {
				prepared.target = i
			}
		}
		t.Candidates = append(t.Candidates, g...)
		groups = append(groups, prepared)
	}
	t.Counts = make([]int, len(t.Candidates))

	rerolls := s.engine.Options().Rerolls
	for n := 0; n < casts; n++ {
		if i := s.cast(groups, rerolls); i >= 0 {
			t.Counts[i]++
		} else {
			t.Misses++
		}
	}
	s.logger.Debug("simulated area",
		zap.String("location", loc.ID),
		zap.String("area", areaID),
		zap.Int("candidates", len(t.Candidates)),
		zap.Int("casts", casts),
		zap.Int("misses", t.Misses),
	)
	return t, nil
}

// cast returns the index of the caught candidate, or -1 for no catch.
func (s *Simulator) cast(groups []group, rerolls int) int {
	for _, g := range groups {
		for round := 0; ; round++ {
			caught := s.attempt(g.chances)
			if caught < 0 {
				break
			}
			if g.target >= 0 && caught != g.target && round < rerolls {
				continue
			}
			return g.offset + caught
		}
	}
	return -1
}

// attempt tries every chance once in a random order and returns the first
// success, or -1.
func (s *Simulator) attempt(chances []float64) int {
	for _, i := range dice.Order(s.src, len(chances)) {
		if dice.Roll(s.src, chances[i]) {
			return i
		}
	}
	return -1
}

// Location simulates the none bucket and every declared area of locID,
// omitting areas without eligible candidates of their own.
func (s *Simulator) Location(locID string, ctx fishing.Context, casts int) ([]Tally, error) {
	loc, ok := s.engine.Catalog().Location(locID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", composition.ErrUnknownLocation, locID)
	}
	var out []Tally
	for _, areaID := range append([]string{""}, loc.Areas...) {
		t, err := s.Area(loc, areaID, ctx, casts)
		if err != nil {
			return nil, err
		}
		if len(t.Candidates) > 0 {
			out = append(out, t)
		}
	}
	return out, nil
}
