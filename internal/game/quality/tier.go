// Package quality models catch quality tiers: the size breakpoints that
// decide them, their price scaling, and the expected tier distribution for a
// player's skill and fishing depth.
package quality

import "math"

// Tier is a catch quality grade. Values match the game's item quality ids,
// which skip 3.
type Tier int

// Quality tiers in ascending order.
const (
	Normal  Tier = 0
	Silver  Tier = 1
	Gold    Tier = 2
	Iridium Tier = 4
)

// Tiers lists every tier in ascending order.
var Tiers = []Tier{Normal, Silver, Gold, Iridium}

// Size breakpoints. Iridium is never reached by size alone.
const (
	SilverSize = 0.33
	GoldSize   = 0.66
)

// String returns the lower-case tier name.
func (t Tier) String() string {
	switch t {
	case Normal:
		return "normal"
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	case Iridium:
		return "iridium"
	default:
		return "unknown"
	}
}

// PriceScale returns the sale price multiplier for t.
// Tiers below Normal scale as Normal and tiers above Gold as Iridium.
func (t Tier) PriceScale() float64 {
	switch {
	case t <= Normal:
		return 1
	case t == Silver:
		return 1.25
	case t == Gold:
		return 1.5
	default:
		return 2
	}
}

// ScalePrice returns floor(price × t.PriceScale()).
//
// Postcondition: ScalePrice(100, Gold) == 150 and ScalePrice(100, Iridium) == 200.
func ScalePrice(price int, t Tier) int {
	return int(math.Floor(float64(price) * t.PriceScale()))
}

// TierForSize maps a normalised size in [0, 1] to its tier.
func TierForSize(size float64) Tier {
	switch {
	case size < SilverSize:
		return Normal
	case size < GoldSize:
		return Silver
	default:
		return Gold
	}
}
