package quality

import "math"

// Distribution holds the share of catches expected at each tier.
//
// Postcondition (for values built by Proportions): the shares sum to 1.
type Distribution struct {
	Normal  float64 `yaml:"normal"`
	Silver  float64 `yaml:"silver"`
	Gold    float64 `yaml:"gold"`
	Iridium float64 `yaml:"iridium"`
}

// Of returns the share for t, or 0 for a tier that does not exist.
func (d Distribution) Of(t Tier) float64 {
	switch t {
	case Normal:
		return d.Normal
	case Silver:
		return d.Silver
	case Gold:
		return d.Gold
	case Iridium:
		return d.Iridium
	default:
		return 0
	}
}

// Sum returns the total of all shares.
func (d Distribution) Sum() float64 {
	return d.Normal + d.Silver + d.Gold + d.Iridium
}

func (d *Distribution) set(t Tier, v float64) {
	switch t {
	case Normal:
		d.Normal = v
	case Silver:
		d.Silver = v
	case Gold:
		d.Gold = v
	case Iridium:
		d.Iridium = v
	}
}

// Random size band applied on top of the level and depth terms.
const (
	minRandomFactor = 0.9
	maxRandomFactor = 1.1
)

// SizeRange returns the practical [min, max] normalised size achievable at
// the given fishing level and depth, using the worst and best case of the
// level roll and of the random band.
//
// Precondition: level >= 0 and depth >= 0.
// Postcondition: lo <= hi.
func SizeRange(level, depth int) (lo, hi float64) {
	minLevel := float64(1 + level/2)
	maxLevel := math.Max(6, minLevel) / 5
	minLevel /= 5
	base := float64(depth) / 5
	return minLevel * base * minRandomFactor, maxLevel * base * maxRandomFactor
}

// PctPerfect returns the effective share of perfect catches.
//
// When scaled is false base is returned unchanged. Otherwise base is scaled by
// 0.5 + 0.05·level (level 10 is neutral) and by 1.5 - difficulty/100
// (difficulty 50 is neutral), then clamped to [0, 1].
func PctPerfect(base float64, level, difficulty int, scaled bool) float64 {
	if !scaled {
		return base
	}
	levelScale := 0.5 + 0.05*float64(level)
	difficultyScale := 1.5 - float64(difficulty)/100
	return clamp(base*levelScale*difficultyScale, 0, 1)
}

// Proportions returns the tier distribution for a rod catch.
//
// Sizes are assumed uniform over SizeRange(level, depth); each tier receives
// its overlap with the range divided by the range length. A range that stays
// within one tier, including an empty range, assigns that tier everything.
// Perfect catches then promote pctPerfect of silver to gold and pctPerfect of
// gold to iridium, the gold outflow being taken before the silver inflow.
//
// Postcondition: result.Sum() == 1 within floating-point tolerance.
func Proportions(level, depth int, pctPerfect float64) Distribution {
	var d Distribution
	lo, hi := SizeRange(level, depth)
	loTier, hiTier := TierForSize(lo), TierForSize(hi)
	span := hi - lo

	if loTier == hiTier || span <= 0 {
		d.set(loTier, 1)
	} else {
		d.Normal = overlap(lo, hi, math.Inf(-1), SilverSize) / span
		d.Silver = overlap(lo, hi, SilverSize, GoldSize) / span
		d.Gold = overlap(lo, hi, GoldSize, math.Inf(1)) / span
	}

	pct := clamp(pctPerfect, 0, 1)
	if pct == 0 {
		return d
	}
	fromGold := d.Gold * pct
	fromSilver := d.Silver * pct
	d.Silver -= fromSilver
	d.Gold += fromSilver - fromGold
	d.Iridium += fromGold
	return d
}

func overlap(lo, hi, boundLo, boundHi float64) float64 {
	return math.Max(0, math.Min(hi, boundHi)-math.Max(lo, boundLo))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
