// Package config provides Viper-based configuration loading for fishcomp.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

// EnvPrefix prefixes environment overrides, e.g. FISHCOMP_PLAYER_SEASON.
const EnvPrefix = "FISHCOMP"

// Large-group policies for engine.large_groups.
const (
	LargeGroupsReject    = "reject"
	LargeGroupsSymmetric = "symmetric"
)

// maxPermutationSize bounds engine.max_size; 10! orders is the most the exact
// strategy is allowed to enumerate.
const maxPermutationSize = 10

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates the YAML catalog and the Lua condition hooks.
type ContentConfig struct {
	Dir string `mapstructure:"dir"`
	// ScriptDir is optional. Empty disables SCRIPT clauses.
	ScriptDir        string `mapstructure:"script_dir"`
	InstructionLimit int    `mapstructure:"instruction_limit"`
}

// PlayerConfig describes the simulated character and the moment being fished.
type PlayerConfig struct {
	Season       string  `mapstructure:"season"`
	Weather      string  `mapstructure:"weather"`
	Time         int     `mapstructure:"time"`
	Level        int     `mapstructure:"level"`
	Depth        int     `mapstructure:"depth"`
	Rod          string  `mapstructure:"rod"`
	Bait         string  `mapstructure:"bait"`
	BaitTarget   string  `mapstructure:"bait_target"`
	Lure         string  `mapstructure:"lure"`
	DailyLuck    float64 `mapstructure:"daily_luck"`
	PctPerfect   float64 `mapstructure:"pct_perfect"`
	ScalePerfect bool    `mapstructure:"scale_perfect"`
	Profession   string  `mapstructure:"profession"`
	Treasure     bool    `mapstructure:"treasure"`
}

// Context converts the player settings into a fishing.Context.
func (p PlayerConfig) Context() fishing.Context {
	return fishing.Context{
		Season:       strings.ToLower(p.Season),
		Weather:      strings.ToLower(p.Weather),
		Time:         p.Time,
		Level:        p.Level,
		Depth:        p.Depth,
		Rod:          p.Rod,
		Bait:         p.Bait,
		BaitTarget:   p.BaitTarget,
		Lure:         p.Lure,
		DailyLuck:    p.DailyLuck,
		PctPerfect:   p.PctPerfect,
		ScalePerfect: p.ScalePerfect,
		Profession:   fishing.Profession(strings.ToLower(p.Profession)),
		Treasure:     p.Treasure,
	}
}

// FilterConfig toggles the optional candidate families.
type FilterConfig struct {
	IncludeBoss  bool `mapstructure:"include_boss"`
	IncludeQuest bool `mapstructure:"include_quest"`
}

// Options converts the filter settings into fishing.FilterOptions.
func (f FilterConfig) Options() fishing.FilterOptions {
	return fishing.FilterOptions{IncludeBoss: f.IncludeBoss, IncludeQuest: f.IncludeQuest}
}

// EngineConfig tunes selection and batch resolution.
type EngineConfig struct {
	// LargeGroups is "reject" or "symmetric": what to do with precedence
	// groups larger than MaxSize.
	LargeGroups       string `mapstructure:"large_groups"`
	Workers           int    `mapstructure:"workers"`
	Rerolls           int    `mapstructure:"rerolls"`
	MaxSize           int    `mapstructure:"max_size"`
	ParallelThreshold int    `mapstructure:"parallel_threshold"`
	PermWorkers       int    `mapstructure:"perm_workers"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Content ContentConfig `mapstructure:"content"`
	Player  PlayerConfig  `mapstructure:"player"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Engine  EngineConfig  `mapstructure:"engine"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateContent(c.Content),
		validatePlayer(c.Player),
		validateEngine(c.Engine),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if c.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.instruction_limit must be >= 0, got %d", c.InstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	var errs []string
	validSeasons := map[string]bool{
		fishing.SeasonSpring: true, fishing.SeasonSummer: true,
		fishing.SeasonFall: true, fishing.SeasonWinter: true,
	}
	if !validSeasons[strings.ToLower(p.Season)] {
		errs = append(errs, fmt.Sprintf("player.season must be one of [spring, summer, fall, winter], got %q", p.Season))
	}
	if p.Weather == "" {
		errs = append(errs, "player.weather must not be empty")
	}
	if p.Time < 0 || p.Time > 2600 {
		errs = append(errs, fmt.Sprintf("player.time must be 0-2600, got %d", p.Time))
	}
	if p.Level < 0 {
		errs = append(errs, fmt.Sprintf("player.level must be >= 0, got %d", p.Level))
	}
	if p.Depth < 0 {
		errs = append(errs, fmt.Sprintf("player.depth must be >= 0, got %d", p.Depth))
	}
	if strings.EqualFold(p.Bait, fishing.BaitTargeted) && p.BaitTarget == "" {
		errs = append(errs, "player.bait_target must be set when player.bait is targeted")
	}
	if math.IsNaN(p.DailyLuck) || math.IsInf(p.DailyLuck, 0) {
		errs = append(errs, "player.daily_luck must be finite")
	}
	if !(p.PctPerfect >= 0 && p.PctPerfect <= 1) {
		errs = append(errs, fmt.Sprintf("player.pct_perfect must be in [0, 1], got %v", p.PctPerfect))
	}
	switch fishing.Profession(strings.ToLower(p.Profession)) {
	case fishing.ProfessionNone, fishing.ProfessionFisher, fishing.ProfessionAngler:
	default:
		errs = append(errs, fmt.Sprintf("player.profession must be one of [none, fisher, angler], got %q", p.Profession))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.LargeGroups != LargeGroupsReject && e.LargeGroups != LargeGroupsSymmetric {
		errs = append(errs, fmt.Sprintf("engine.large_groups must be one of [reject, symmetric], got %q", e.LargeGroups))
	}
	if e.Workers < 1 {
		errs = append(errs, fmt.Sprintf("engine.workers must be >= 1, got %d", e.Workers))
	}
	if e.Rerolls < 0 {
		errs = append(errs, fmt.Sprintf("engine.rerolls must be >= 0, got %d", e.Rerolls))
	}
	if e.MaxSize < 1 || e.MaxSize > maxPermutationSize {
		errs = append(errs, fmt.Sprintf("engine.max_size must be 1-%d, got %d", maxPermutationSize, e.MaxSize))
	}
	if e.ParallelThreshold < 1 {
		errs = append(errs, fmt.Sprintf("engine.parallel_threshold must be >= 1, got %d", e.ParallelThreshold))
	}
	if e.PermWorkers < 1 {
		errs = append(errs, fmt.Sprintf("engine.perm_workers must be >= 1, got %d", e.PermWorkers))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path skips the file
// and uses defaults plus environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and FISHCOMP_ environment
// overrides installed.
//
// Postcondition: Returns a non-nil Viper with every known key defaulted.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.script_dir", "")
	v.SetDefault("content.instruction_limit", 0)

	v.SetDefault("player.season", fishing.SeasonSpring)
	v.SetDefault("player.weather", fishing.WeatherSunny)
	v.SetDefault("player.time", 600)
	v.SetDefault("player.level", 0)
	v.SetDefault("player.depth", 4)
	v.SetDefault("player.rod", "")
	v.SetDefault("player.bait", "")
	v.SetDefault("player.bait_target", "")
	v.SetDefault("player.lure", "")
	v.SetDefault("player.daily_luck", 0.0)
	v.SetDefault("player.pct_perfect", 0.0)
	v.SetDefault("player.scale_perfect", false)
	v.SetDefault("player.profession", string(fishing.ProfessionNone))
	v.SetDefault("player.treasure", false)

	v.SetDefault("filter.include_boss", false)
	v.SetDefault("filter.include_quest", false)

	v.SetDefault("engine.large_groups", LargeGroupsSymmetric)
	v.SetDefault("engine.workers", 4)
	v.SetDefault("engine.rerolls", 2)
	v.SetDefault("engine.max_size", 9)
	v.SetDefault("engine.parallel_threshold", 7)
	v.SetDefault("engine.perm_workers", 12)
}
