package composition

import (
	"math"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
	"github.com/cory-johannsen/fishcomp/internal/game/quality"
)

// Experience constants.
const (
	trapXP             = 5
	itemXP             = 3
	xpPerQualityStep   = 3
	perfectXPScale     = 2.4
	treasureXPScale    = 2.2
	legendaryXPScale   = 5
	difficultyXPDivide = 3.0
)

// RewardStats returns the expected coin value and experience of catching item
// once under ctx. p is the item's catchable profile, or nil for a plain item.
//
// A plain item is worth its price and 3 experience. A trap catch is worth its
// price times the profession multiplier and 5 experience. A rod catch is
// valued over its quality distribution.
func RewardStats(item *fishing.Item, p *fishing.Profile, ctx fishing.Context) (value, xp int) {
	switch {
	case p == nil:
		return item.Price, itemXP
	case p.IsTrap():
		return int(math.Floor(float64(item.Price) * ctx.Profession.Multiplier())), trapXP
	}

	pct := quality.PctPerfect(ctx.PctPerfect, ctx.Level, p.Difficulty, ctx.ScalePerfect)
	dist := quality.Proportions(ctx.Level, ctx.Depth, pct)
	return rodValue(item.Price, dist, ctx.Profession), rodXP(item, p, dist, pct, ctx.Treasure)
}

func rodValue(price int, dist quality.Distribution, prof fishing.Profession) int {
	total := 0.0
	for _, t := range quality.Tiers {
		total += float64(quality.ScalePrice(price, t)) * dist.Of(t)
	}
	return int(math.Floor(total * prof.Multiplier()))
}

func rodXP(item *fishing.Item, p *fishing.Profile, dist quality.Distribution, pct float64, treasure bool) int {
	xp := 0.0
	for _, t := range quality.Tiers {
		xp += math.Floor(float64((int(t)+1)*xpPerQualityStep) * dist.Of(t))
	}
	xp = math.Floor(xp + float64(p.Difficulty)/difficultyXPDivide)
	xp = math.Floor(xp * perfectXPScale * pct)
	if treasure {
		xp = math.Floor(xp * treasureXPScale)
	}
	if item.Legendary() {
		xp = math.Floor(xp * legendaryXPScale)
	}
	return int(xp)
}

// CandidateStats averages RewardStats over the candidate's rewards, looking
// each reward's profile up in src.
//
// Postcondition: returns (0, 0) for a candidate without resolved rewards.
func CandidateStats(c fishing.Candidate, src fishing.ItemSource, ctx fishing.Context) (value, xp float64) {
	if len(c.Rewards) == 0 {
		return 0, 0
	}
	for _, item := range c.Rewards {
		var p *fishing.Profile
		if found, ok := src.Profile(item.ID); ok {
			p = found
		}
		v, x := RewardStats(item, p, ctx)
		value += float64(v)
		xp += float64(x)
	}
	n := float64(len(c.Rewards))
	return value / n, xp / n
}
