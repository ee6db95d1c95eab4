package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fishcomp/internal/config"
	"github.com/cory-johannsen/fishcomp/internal/content"
	"github.com/cory-johannsen/fishcomp/internal/game/composition"
	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
	"github.com/cory-johannsen/fishcomp/internal/game/selection"
	"github.com/cory-johannsen/fishcomp/internal/observability"
	"github.com/cory-johannsen/fishcomp/internal/scripting"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configPath string

	cfg     config.Config
	logger  *zap.Logger
	catalog *fishing.Catalog
	filter  *fishing.Filter
	engine  *composition.Engine
	scripts *scripting.Manager
}

// flagKeys maps persistent flag names to the configuration keys they override.
var flagKeys = map[string]string{
	"content":      "content.dir",
	"scripts":      "content.script_dir",
	"log-level":    "logging.level",
	"season":       "player.season",
	"weather":      "player.weather",
	"time":         "player.time",
	"level":        "player.level",
	"depth":        "player.depth",
	"bait":         "player.bait",
	"bait-target":  "player.bait_target",
	"include-boss": "filter.include_boss",
	"large-groups": "engine.large_groups",
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}
	root := &cobra.Command{
		Use:   "fishcomp",
		Short: "Compute fishing catch probabilities per location and area",
		Long: `fishcomp resolves the catch probabilities of every eligible outcome in a
location's areas under a configured fishing context, together with the
expected coin value and experience of each catch.

Settings come from an optional YAML file (--config), FISHCOMP_* environment
variables and the flags below, in increasing priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML configuration file")
	flags.String("content", "content", "content directory")
	flags.String("scripts", "", "Lua condition hook directory")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("season", fishing.SeasonSpring, "season: spring, summer, fall, winter")
	flags.String("weather", fishing.WeatherSunny, "weather, e.g. sunny, rain, storm")
	flags.Int("time", 600, "time of day as a 24h clock value, e.g. 1830")
	flags.Int("level", 0, "fishing level")
	flags.Int("depth", 4, "casting distance from shore in tiles")
	flags.String("bait", "", "bait, e.g. magic or targeted")
	flags.String("bait-target", "", "reward ID attracted by targeted bait")
	flags.Bool("include-boss", false, "include boss and legendary fish")
	flags.String("large-groups", config.LargeGroupsSymmetric, "oversized group policy: reject or symmetric")
	for name, key := range flagKeys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}

	root.AddCommand(newLocationCmd(a), newFishCmd(a), newSimulateCmd(a), newConfigCmd(a))
	return root
}

// loadConfig reads and validates the configuration and builds the logger.
func (a *app) loadConfig() error {
	if a.configPath != "" {
		a.v.SetConfigFile(a.configPath)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	cfg, err := config.LoadFromViper(a.v)
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// build loads the catalog and scripts and assembles the engine.
//
// Precondition: loadConfig succeeded.
func (a *app) build() error {
	cat, err := content.LoadCatalog(a.cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("loading content from %s: %w", a.cfg.Content.Dir, err)
	}
	a.catalog = cat

	var hook fishing.ConditionHook
	if dir := a.cfg.Content.ScriptDir; dir != "" {
		mgr := scripting.NewManager(a.logger)
		mgr.Items = cat
		if err := mgr.LoadTree(dir, a.cfg.Content.InstructionLimit); err != nil {
			mgr.Close()
			return err
		}
		a.scripts = mgr
		hook = mgr
	}

	a.filter = fishing.NewFilter(a.cfg.Filter.Options(), hook, a.logger)
	a.engine = composition.NewEngine(cat, a.filter, newStrategy(a.cfg.Engine, a.logger), composition.Options{
		Rerolls: a.cfg.Engine.Rerolls,
		Workers: a.cfg.Engine.Workers,
	}, a.logger)
	a.logger.Debug("engine ready",
		zap.String("content", a.cfg.Content.Dir),
		zap.Int("locations", len(cat.LocationIDs())),
		zap.Bool("scripts", a.scripts != nil),
	)
	return nil
}

func (a *app) close() {
	if a.scripts != nil {
		a.scripts.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// newStrategy builds the exact permutation strategy, wrapped in a symmetric
// fallback unless oversized groups should be rejected.
func newStrategy(e config.EngineConfig, logger *zap.Logger) selection.Strategy {
	perm := &selection.Permutation{
		MaxSize:           e.MaxSize,
		ParallelThreshold: e.ParallelThreshold,
		Workers:           e.PermWorkers,
	}
	if e.LargeGroups == config.LargeGroupsReject {
		return perm
	}
	return selection.NewFallback(perm, selection.Symmetric{}, logger)
}
