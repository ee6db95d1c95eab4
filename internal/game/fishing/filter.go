package fishing

import (
	"strings"

	"go.uber.org/zap"
)

// ConditionHook evaluates SCRIPT condition clauses.
type ConditionHook interface {
	// Evaluate reports whether the named hook admits c under ctx.
	Evaluate(hook string, args []string, c Candidate, ctx Context) (bool, error)
}

// FilterOptions selects which special candidates the filter keeps.
type FilterOptions struct {
	// IncludeBoss keeps boss and legendary candidates.
	IncludeBoss bool
	// IncludeQuest keeps special-quest and quest-currency candidates.
	IncludeQuest bool
}

// Rejection reasons reported by Filter.Check.
const (
	RejectOneTime      = "one-time catch"
	RejectBoss         = "boss fish excluded"
	RejectQuest        = "quest catch excluded"
	RejectFestival     = "requires a festival"
	RejectRandomPick   = "random pick from another location"
	RejectUnresolved   = "unresolved reward"
	RejectProfile      = "outside profile time or weather window"
	RejectMagicBait    = "requires magic bait"
	RejectSeason       = "out of season"
	RejectWeather      = "weather not allowed"
	RejectScript       = "script condition not met"
	RejectScriptFailed = "script condition failed"
)

// Filter decides which candidates may be attempted under a context.
// A Filter has no mutable state and is safe for concurrent use.
type Filter struct {
	opts   FilterOptions
	hook   ConditionHook
	logger *zap.Logger
}

// NewFilter creates a Filter.
//
// Precondition: logger must not be nil. hook may be nil, in which case SCRIPT
// clauses are no constraint.
func NewFilter(opts FilterOptions, hook ConditionHook, logger *zap.Logger) *Filter {
	return &Filter{opts: opts, hook: hook, logger: logger}
}

// Apply returns the candidates of cands eligible under ctx, in input order.
// The input slice is not modified.
func (f *Filter) Apply(cands []Candidate, ctx Context) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if ok, _ := f.Check(c, ctx); ok {
			out = append(out, c)
		}
	}
	return out
}

// Check reports whether c is eligible under ctx and, when it is not, the
// first rule that rejected it.
func (f *Filter) Check(c Candidate, ctx Context) (bool, string) {
	switch {
	case c.SetFlagOnCatch != "":
		return false, RejectOneTime
	case c.Boss && !f.opts.IncludeBoss:
		return false, RejectBoss
	case !f.opts.IncludeQuest && (c.Condition.Has(ClauseLegendaryFamily) || c.Condition.Has(ClauseQiBeans)):
		return false, RejectQuest
	case c.Condition.Has(ClauseFestival):
		return false, RejectFestival
	case c.RandomPick:
		return false, RejectRandomPick
	case c.Unresolved:
		return false, RejectUnresolved
	case c.Profile != nil && !c.IgnoreProfileRequirements && !c.Profile.Available(ctx):
		return false, RejectProfile
	case c.RequireMagicBait && !ctx.MagicBait():
		return false, RejectMagicBait
	case c.Season != "" && !strings.EqualFold(c.Season, ctx.Season):
		return false, RejectSeason
	case !c.Condition.Allows(ClauseLocationSeason, ctx.Season):
		return false, RejectSeason
	case !c.Condition.Allows(ClauseWeather, ctx.Weather):
		return false, RejectWeather
	}
	return f.checkScript(c, ctx)
}

func (f *Filter) checkScript(c Candidate, ctx Context) (bool, string) {
	if f.hook == nil {
		return true, ""
	}
	hook, args, ok := c.Condition.Script()
	if !ok {
		return true, ""
	}
	allowed, err := f.hook.Evaluate(hook, args, c, ctx)
	if err != nil {
		f.logger.Warn("condition hook failed",
			zap.String("hook", hook),
			zap.String("candidate", c.PrimaryID()),
			zap.Error(err),
		)
		return false, RejectScriptFailed
	}
	if !allowed {
		return false, RejectScript
	}
	return true, ""
}
