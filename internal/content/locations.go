package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

// yamlLocationFile is the top-level YAML structure for location files.
type yamlLocationFile struct {
	Location yamlLocation `yaml:"location"`
}

type yamlLocation struct {
	ID         string          `yaml:"id"`
	Areas      []string        `yaml:"areas"`
	Candidates []yamlCandidate `yaml:"candidates"`
}

type yamlCandidate struct {
	// Reward is a single item ID, "a|b|c" for a random pick, or a
	// LOCATION_FISH placeholder.
	Reward                    string         `yaml:"reward"`
	Chance                    *float64       `yaml:"chance"`
	Area                      string         `yaml:"area"`
	Precedence                int            `yaml:"precedence"`
	Boss                      bool           `yaml:"boss"`
	RequireMagicBait          bool           `yaml:"require_magic_bait"`
	SetFlagOnCatch            string         `yaml:"set_flag_on_catch"`
	Condition                 string         `yaml:"condition"`
	Season                    string         `yaml:"season"`
	ChanceModifiers           []yamlModifier `yaml:"chance_modifiers"`
	ChanceModifierMode        string         `yaml:"chance_modifier_mode"`
	IgnoreProfileRequirements bool           `yaml:"ignore_profile_requirements"`
	ApplyDailyLuck            bool           `yaml:"apply_daily_luck"`
	CuriosityLureBuff         *float64       `yaml:"curiosity_lure_buff"`
}

type yamlModifier struct {
	Amount float64 `yaml:"amount"`
	Op     string  `yaml:"op"`
}

// LoadLocationFromFile reads and validates a single location YAML file.
//
// Precondition: path must point to a valid YAML location file.
// Postcondition: Returns a validated RawLocation or a non-nil error.
func LoadLocationFromFile(path string) (fishing.RawLocation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fishing.RawLocation{}, fmt.Errorf("reading location file %s: %w", path, err)
	}
	return LoadLocationFromBytes(data)
}

// LoadLocationFromBytes parses and validates a location from YAML bytes.
//
// Postcondition: candidate chances default to 1 and modifier modes to stack.
func LoadLocationFromBytes(data []byte) (fishing.RawLocation, error) {
	var file yamlLocationFile
	if err := decodeStrict(data, &file); err != nil {
		return fishing.RawLocation{}, fmt.Errorf("parsing location YAML: %w", err)
	}
	loc := convertYAMLLocation(file.Location)
	if err := validateLocation(loc); err != nil {
		return fishing.RawLocation{}, fmt.Errorf("validating location %q: %w", loc.ID, err)
	}
	return loc, nil
}

// LoadLocationsFromDir loads all YAML files in a directory as locations.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated locations or the first error encountered.
func LoadLocationsFromDir(dir string) ([]fishing.RawLocation, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("reading location directory %s: %w", dir, err)
	}
	var locations []fishing.RawLocation
	for _, path := range paths {
		loc, err := LoadLocationFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading location from %s: %w", filepath.Base(path), err)
		}
		locations = append(locations, loc)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("no location files found in %s", dir)
	}
	return locations, nil
}

// convertYAMLLocation converts the parsed YAML structures into domain types.
func convertYAMLLocation(yl yamlLocation) fishing.RawLocation {
	loc := fishing.RawLocation{
		ID:         yl.ID,
		Areas:      yl.Areas,
		Candidates: make([]fishing.RawCandidate, 0, len(yl.Candidates)),
	}
	for _, yc := range yl.Candidates {
		rc := fishing.RawCandidate{
			RewardIDs:                 fishing.ParseRewardIDs(yc.Reward),
			Chance:                    1,
			Area:                      yc.Area,
			Precedence:                yc.Precedence,
			Boss:                      yc.Boss,
			RequireMagicBait:          yc.RequireMagicBait,
			SetFlagOnCatch:            yc.SetFlagOnCatch,
			Condition:                 fishing.Condition(yc.Condition),
			Season:                    yc.Season,
			ChanceModifierMode:        fishing.ModifierMode(yc.ChanceModifierMode),
			IgnoreProfileRequirements: yc.IgnoreProfileRequirements,
			ApplyDailyLuck:            yc.ApplyDailyLuck,
			CuriosityLureBuff:         yc.CuriosityLureBuff,
		}
		if yc.Chance != nil {
			rc.Chance = *yc.Chance
		}
		if rc.ChanceModifierMode == "" {
			rc.ChanceModifierMode = fishing.ModeStack
		}
		for _, ym := range yc.ChanceModifiers {
			rc.ChanceModifiers = append(rc.ChanceModifiers, fishing.ChanceModifier{
				Amount: ym.Amount,
				Op:     fishing.ModifierOp(ym.Op),
			})
		}
		loc.Candidates = append(loc.Candidates, rc)
	}
	return loc
}

func validateLocation(loc fishing.RawLocation) error {
	var errs []error
	if loc.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	for i, area := range loc.Areas {
		if area == "" {
			errs = append(errs, errors.New("area IDs must not be empty"))
		}
		if slices.Contains(loc.Areas[:i], area) {
			errs = append(errs, fmt.Errorf("area %q declared twice", area))
		}
	}
	for i, c := range loc.Candidates {
		if len(c.RewardIDs) == 0 {
			errs = append(errs, fmt.Errorf("candidate %d: reward must not be empty", i))
		}
		if c.Chance < 0 || c.Chance > 1 {
			errs = append(errs, fmt.Errorf("candidate %d: chance must be in [0, 1]; got %v", i, c.Chance))
		}
		if c.Area != "" && !slices.Contains(loc.Areas, c.Area) {
			errs = append(errs, fmt.Errorf("candidate %d: area %q is not declared", i, c.Area))
		}
		if err := fishing.ValidateModifiers(c.ChanceModifiers, c.ChanceModifierMode); err != nil {
			errs = append(errs, fmt.Errorf("candidate %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
