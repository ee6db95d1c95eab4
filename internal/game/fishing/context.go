// Package fishing provides the catch data model and everything that decides
// whether, and how often, a single candidate can be caught: reward items and
// their catchable profiles, location candidates and their two-phase
// resolution, condition clauses, the eligibility filter, and the average
// chance formula.
package fishing

import "strings"

// Seasons.
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
	SeasonWinter = "winter"
)

// Context weather tokens.
const (
	WeatherSunny     = "sunny"
	WeatherRain      = "rain"
	WeatherStorm     = "storm"
	WeatherGreenRain = "greenrain"
	WeatherSnow      = "snow"
	WeatherWind      = "wind"
)

// Equipment identifiers with an effect on catch chances.
const (
	RodTraining   = "training"
	BaitMagic     = "magic"
	BaitTargeted  = "targeted"
	LureCuriosity = "curiosity"
)

// Profession is the fishing profession chosen at level 5, which scales sale
// prices.
type Profession string

// Fishing professions.
const (
	ProfessionNone   Profession = "none"
	ProfessionFisher Profession = "fisher"
	ProfessionAngler Profession = "angler"
)

// Multiplier returns the sale price multiplier for p. Unknown professions
// apply no bonus.
func (p Profession) Multiplier() float64 {
	switch Profession(strings.ToLower(string(p))) {
	case ProfessionFisher:
		return 1.25
	case ProfessionAngler:
		return 1.5
	default:
		return 1
	}
}

// Context is the player and world state a query is resolved against.
// It is passed by value and never mutated during resolution.
type Context struct {
	Season  string
	Weather string
	// Time is a 24h clock value such as 1859 for 6:59pm. Values past 2400
	// denote the early hours of the next day.
	Time  int
	Level int
	// Depth is the casting distance from shore, in tiles.
	Depth      int
	Rod        string
	Bait       string
	BaitTarget string
	Lure       string
	DailyLuck  float64
	// PctPerfect is the configured share of perfect catches, before any
	// level or difficulty scaling.
	PctPerfect float64
	// ScalePerfect enables level and difficulty scaling of PctPerfect.
	ScalePerfect bool
	Profession   Profession
	Treasure     bool
}

// Raining reports whether the context weather counts as rain for profile
// weather gating.
func (c Context) Raining() bool {
	switch strings.ToLower(c.Weather) {
	case WeatherRain, WeatherStorm, WeatherGreenRain, "rainy":
		return true
	default:
		return false
	}
}

// TargetsReward reports whether targeted bait is equipped and aimed at id.
func (c Context) TargetsReward(id string) bool {
	return strings.EqualFold(c.Bait, BaitTargeted) && c.BaitTarget != "" && c.BaitTarget == id
}

// TrainingRod reports whether the training rod is equipped.
func (c Context) TrainingRod() bool {
	return strings.EqualFold(c.Rod, RodTraining)
}

// CuriosityLure reports whether the curiosity lure is equipped.
func (c Context) CuriosityLure() bool {
	return strings.EqualFold(c.Lure, LureCuriosity)
}

// MagicBait reports whether magic bait is equipped.
func (c Context) MagicBait() bool {
	return strings.EqualFold(c.Bait, BaitMagic)
}
