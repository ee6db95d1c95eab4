// Package composition resolves catch compositions: it cascades selection
// probabilities across precedence groups and aggregates the expected value
// and experience of every eligible candidate in a location's areas.
package composition

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
	"github.com/cory-johannsen/fishcomp/internal/game/selection"
)

// ErrUnknownLocation is returned when a queried location is not in the catalog.
var ErrUnknownLocation = errors.New("composition: unknown location")

// Engine defaults.
const (
	DefaultRerolls = 2
	DefaultWorkers = 4
)

// Options tunes an Engine.
type Options struct {
	// Rerolls is the number of rerolls granted by targeted bait.
	Rerolls int
	// Workers bounds the number of locations resolved concurrently by
	// ResolveBatch.
	Workers int
}

// Engine resolves catch compositions against a read-only catalog.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog  *fishing.Catalog
	filter   *fishing.Filter
	strategy selection.Strategy
	opts     Options
	logger   *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: catalog, filter, strategy and logger must be non-nil.
// Postcondition: a negative Rerolls or non-positive Workers is replaced by its default.
func NewEngine(catalog *fishing.Catalog, filter *fishing.Filter, strategy selection.Strategy, opts Options, logger *zap.Logger) *Engine {
	if opts.Rerolls < 0 {
		opts.Rerolls = DefaultRerolls
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Engine{
		catalog:  catalog,
		filter:   filter,
		strategy: strategy,
		opts:     opts,
		logger:   logger,
	}
}

// Cascade filters cands and resolves them as one area.
//
// Postcondition: entries appear in ascending precedence order, keeping input
// order within a group; the sum of entry probabilities is at most 1.
func (e *Engine) Cascade(cands []fishing.Candidate, ctx fishing.Context) (Result, error) {
	return e.cascade(e.filter.Apply(cands, ctx), ctx, e.logger)
}

func (e *Engine) cascade(eligible []fishing.Candidate, ctx fishing.Context, logger *zap.Logger) (Result, error) {
	res := Result{Residual: 1}
	carry := 1.0
	for _, group := range GroupByPrecedence(eligible) {
		weights, chances, err := e.groupWeights(group, ctx)
		if err != nil {
			return Result{}, fmt.Errorf("precedence %d: %w", group[0].Precedence, err)
		}
		logger.Debug("resolved precedence group",
			zap.Int("precedence", group[0].Precedence),
			zap.Int("candidates", len(group)),
			zap.Float64("carry", carry),
		)
		groupTotal := 0.0
		for i, c := range group {
			value, xp := CandidateStats(c, e.catalog, ctx)
			res.Entries = append(res.Entries, Entry{
				Candidate:   c,
				Precedence:  c.Precedence,
				Chance:      chances[i],
				Weight:      weights[i],
				Probability: weights[i] * carry,
				Value:       value,
				XP:          xp,
			})
			groupTotal += weights[i]
		}
		carry *= max(0, 1-groupTotal)
	}
	res.Residual = carry
	return res, nil
}

func (e *Engine) groupWeights(group []fishing.Candidate, ctx fishing.Context) (weights, chances []float64, err error) {
	chances = make([]float64, len(group))
	target := -1
	for i, c := range group {
		if chances[i], err = fishing.Chance(c, ctx); err != nil {
			return nil, nil, err
		}
		if target < 0 && ctx.TargetsReward(c.PrimaryID()) {
			target = i
		}
	}
	if target >= 0 {
		weights, err = selection.Biased(e.strategy, chances, target, e.opts.Rerolls)
	} else {
		weights, err = e.strategy.Probabilities(chances)
	}
	if err != nil {
		return nil, nil, err
	}
	return weights, chances, nil
}

// GroupByPrecedence partitions cands into groups ordered by ascending
// precedence, keeping input order within a group.
func GroupByPrecedence(cands []fishing.Candidate) [][]fishing.Candidate {
	byPrecedence := make(map[int][]fishing.Candidate)
	var keys []int
	for _, c := range cands {
		if _, ok := byPrecedence[c.Precedence]; !ok {
			keys = append(keys, c.Precedence)
		}
		byPrecedence[c.Precedence] = append(byPrecedence[c.Precedence], c)
	}
	slices.Sort(keys)
	groups := make([][]fishing.Candidate, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, byPrecedence[k])
	}
	return groups
}

// ResolveArea resolves one area of loc. Unless loc is the Default location,
// the Default location's eligible candidates are merged in as a fallback.
//
// Postcondition: an area with no eligible candidates of its own yields an
// empty Result with Residual 1, regardless of the Default location.
func (e *Engine) ResolveArea(loc *fishing.Location, areaID string, ctx fishing.Context) (Result, error) {
	return e.resolveArea(loc, areaID, ctx, e.logger)
}

// Eligible returns the candidates attempted in one area of loc: the area's
// own eligible candidates followed, unless loc is the Default location, by
// the Default location's. It returns nil when the area has no eligible
// candidates of its own.
func (e *Engine) Eligible(loc *fishing.Location, areaID string, ctx fishing.Context) []fishing.Candidate {
	eligible := e.filter.Apply(loc.AreaCandidates(areaID), ctx)
	if len(eligible) == 0 {
		return nil
	}
	if !loc.IsDefault() {
		if def, ok := e.catalog.Default(); ok {
			eligible = append(eligible, e.filter.Apply(def.Candidates, ctx)...)
		}
	}
	return eligible
}

// Catalog returns the catalog the engine resolves against.
func (e *Engine) Catalog() *fishing.Catalog {
	return e.catalog
}

// Options returns the options the engine was created with, after defaulting.
func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) resolveArea(loc *fishing.Location, areaID string, ctx fishing.Context, logger *zap.Logger) (Result, error) {
	eligible := e.Eligible(loc, areaID, ctx)
	if len(eligible) == 0 {
		return Result{LocationID: loc.ID, AreaID: areaID, Residual: 1}, nil
	}

	logger = logger.With(zap.String("location", loc.ID), zap.String("area", areaID))
	res, err := e.cascade(eligible, ctx, logger)
	if err != nil {
		return Result{}, fmt.Errorf("location %q area %q: %w", loc.ID, areaID, err)
	}
	res.LocationID, res.AreaID = loc.ID, areaID
	return res, nil
}

// ResolveLocation resolves the none bucket and every declared area of the
// location locID, omitting areas without eligible candidates of their own.
func (e *Engine) ResolveLocation(locID string, ctx fishing.Context) ([]Result, error) {
	return e.resolveLocation(locID, ctx, e.logger)
}

func (e *Engine) resolveLocation(locID string, ctx fishing.Context, logger *zap.Logger) ([]Result, error) {
	loc, ok := e.catalog.Location(locID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, locID)
	}
	var out []Result
	for _, areaID := range append([]string{""}, loc.Areas...) {
		res, err := e.resolveArea(loc, areaID, ctx, logger)
		if err != nil {
			return nil, err
		}
		if !res.Empty() {
			out = append(out, res)
		}
	}
	return out, nil
}

// ResolveBatch resolves every location in locIDs concurrently, at most
// Options.Workers at a time. Results keep the order of locIDs. All results
// and log lines of one call share a query ID.
//
// Postcondition: returns the first error encountered, with no partial results.
func (e *Engine) ResolveBatch(locIDs []string, ctx fishing.Context) ([]LocationResult, error) {
	queryID := uuid.NewString()
	logger := e.logger.With(zap.String("query_id", queryID))
	logger.Debug("resolving batch", zap.Int("locations", len(locIDs)), zap.Int("workers", e.opts.Workers))

	results := make([]LocationResult, len(locIDs))
	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for i, id := range locIDs {
		g.Go(func() error {
			areas, err := e.resolveLocation(id, ctx, logger)
			if err != nil {
				return err
			}
			results[i] = LocationResult{QueryID: queryID, LocationID: id, Areas: areas}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Debug("batch failed", zap.Error(err))
		return nil, err
	}
	return results, nil
}
