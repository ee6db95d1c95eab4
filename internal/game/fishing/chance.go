package fishing

import (
	"fmt"
	"math"
)

// Average chance constants.
const (
	MaxAverageChance       = 0.9
	trainingRodMultiplier  = 1.1
	curiosityThreshold     = 0.25
	curiosityFloor         = 0.08
	targetedBaitMultiplier = 4.0 / 3.0
	levelDivisor           = 50.0
)

// Chance returns the raw per-attempt success chance of c under ctx: the
// candidate's base chance times its profile chance, clamped to [0, 1].
// Candidates without a profile use their base chance alone.
//
// Postcondition: result is in [0, 1] when err is nil.
func Chance(c Candidate, ctx Context) (float64, error) {
	specific := 1.0
	if c.Profile != nil {
		var err error
		specific, err = ProfileChance(c, ctx)
		if err != nil {
			return 0, fmt.Errorf("chance for %q: %w", c.PrimaryID(), err)
		}
	}
	return clamp01(c.Chance * specific), nil
}

// ProfileChance returns the average catch chance contributed by c's profile.
// A trap profile always reports its fixed chance. A rod profile runs the
// average chance formula followed by the candidate's chance modifiers.
//
// Precondition: c.Profile is non-nil.
func ProfileChance(c Candidate, ctx Context) (float64, error) {
	p := c.Profile
	if p.IsTrap() {
		return p.Chance, nil
	}

	chance := p.SpawnMult
	dropOff := p.SpawnMult * p.DepthMult
	chance -= float64(max(0, p.MaxDepth-ctx.Depth)) * dropOff
	chance += float64(ctx.Level) / levelDivisor
	if ctx.TrainingRod() {
		chance *= trainingRodMultiplier
	}
	chance = math.Min(MaxAverageChance, chance)

	if chance < curiosityThreshold && ctx.CuriosityLure() {
		if buff := c.CuriosityLureBuff; buff != nil && *buff >= 0 {
			chance += *buff
		} else {
			span := curiosityThreshold - curiosityFloor
			chance = span/curiosityThreshold*chance + span/2
		}
	}
	if ctx.TargetsReward(c.PrimaryID()) {
		chance *= targetedBaitMultiplier
	}
	if c.ApplyDailyLuck {
		chance += ctx.DailyLuck
	}
	return ApplyModifiers(chance, c.ChanceModifiers, c.ChanceModifierMode)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
