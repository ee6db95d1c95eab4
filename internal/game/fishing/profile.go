package fishing

import (
	"errors"
	"fmt"
	"strings"
)

// ProfileKind distinguishes passive trap catches from rod catches.
type ProfileKind string

// Profile kinds.
const (
	ProfileTrap ProfileKind = "trap"
	ProfileRod  ProfileKind = "rod"
)

// Profile weather tokens.
const (
	ProfileWeatherSunny = "sunny"
	ProfileWeatherRainy = "rainy"
	ProfileWeatherBoth  = "both"
)

// Difficulty bounds for rod profiles.
const (
	MinDifficulty = 15
	MaxDifficulty = 100
)

// Profile is the catchable behaviour of a fishable reward, keyed by the
// reward's item ID.
//
// A trap profile only carries Chance. A rod profile carries every other field
// and takes part in the average chance formula and the quality distribution.
type Profile struct {
	ID   string
	Kind ProfileKind

	// Chance is the fixed catch chance of a trap profile.
	Chance float64

	Difficulty int
	MinSize    int
	MaxSize    int
	// MaxDepth is the casting depth at which the spawn rate stops dropping off.
	MaxDepth  int
	SpawnMult float64
	DepthMult float64
	MinLevel  int
	// Times is a flat list of [start, end) 24h clock pairs.
	Times   []int
	Weather string
}

// IsTrap reports whether p is a trap profile.
func (p *Profile) IsTrap() bool {
	return p.Kind == ProfileTrap
}

// Validate checks that the Profile is exactly one kind and that the fields of
// that kind are in range.
//
// Precondition: p is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (p *Profile) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	switch p.Kind {
	case ProfileTrap:
		if p.Chance < 0 || p.Chance > 1 {
			errs = append(errs, fmt.Errorf("Chance must be in [0, 1]; got %v", p.Chance))
		}
		if p.hasRodFields() {
			errs = append(errs, errors.New("trap profile must not set rod fields"))
		}
	case ProfileRod:
		errs = append(errs, p.validateRod()...)
	default:
		errs = append(errs, fmt.Errorf("Kind must be one of trap, rod; got %q", p.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("profile %q validation failed: %w", p.ID, errors.Join(errs...))
	}
	return nil
}

func (p *Profile) hasRodFields() bool {
	return p.Difficulty != 0 || p.MinSize != 0 || p.MaxSize != 0 || p.MaxDepth != 0 ||
		p.SpawnMult != 0 || p.DepthMult != 0 || p.MinLevel != 0 || len(p.Times) > 0 || p.Weather != ""
}

func (p *Profile) validateRod() []error {
	var errs []error
	if p.Chance != 0 {
		errs = append(errs, errors.New("rod profile must not set a fixed Chance"))
	}
	if p.Difficulty < MinDifficulty || p.Difficulty > MaxDifficulty {
		errs = append(errs, fmt.Errorf("Difficulty must be in [%d, %d]; got %d", MinDifficulty, MaxDifficulty, p.Difficulty))
	}
	if p.MinSize < 0 || p.MaxSize < p.MinSize {
		errs = append(errs, fmt.Errorf("size range [%d, %d] is invalid", p.MinSize, p.MaxSize))
	}
	if p.MaxDepth < 0 {
		errs = append(errs, errors.New("MaxDepth must be >= 0"))
	}
	if p.SpawnMult < 0 || p.DepthMult < 0 {
		errs = append(errs, errors.New("SpawnMult and DepthMult must be >= 0"))
	}
	if p.MinLevel < 0 {
		errs = append(errs, errors.New("MinLevel must be >= 0"))
	}
	if len(p.Times) == 0 || len(p.Times)%2 != 0 {
		errs = append(errs, fmt.Errorf("Times must hold start/end pairs; got %d values", len(p.Times)))
	} else {
		for i := 0; i < len(p.Times); i += 2 {
			if p.Times[i] >= p.Times[i+1] {
				errs = append(errs, fmt.Errorf("time interval [%d, %d) is empty", p.Times[i], p.Times[i+1]))
			}
		}
	}
	switch strings.ToLower(p.Weather) {
	case ProfileWeatherSunny, ProfileWeatherRainy, ProfileWeatherBoth:
	default:
		errs = append(errs, fmt.Errorf("Weather must be one of sunny, rainy, both; got %q", p.Weather))
	}
	return errs
}

// Available reports whether the profile's time and weather window admits ctx.
// Trap profiles are always available.
func (p *Profile) Available(ctx Context) bool {
	if p.IsTrap() {
		return true
	}
	return p.inWindow(ctx.Time) && p.weatherAllows(ctx)
}

func (p *Profile) inWindow(clock int) bool {
	for i := 0; i+1 < len(p.Times); i += 2 {
		if clock >= p.Times[i] && clock < p.Times[i+1] {
			return true
		}
	}
	return false
}

func (p *Profile) weatherAllows(ctx Context) bool {
	switch strings.ToLower(p.Weather) {
	case ProfileWeatherBoth:
		return true
	case ProfileWeatherRainy:
		return ctx.Raining()
	case ProfileWeatherSunny:
		return !ctx.Raining()
	default:
		return false
	}
}
