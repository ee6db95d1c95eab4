package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/fishcomp/internal/game/dice"
	"github.com/cory-johannsen/fishcomp/internal/game/simulate"
)

type simulatedEntry struct {
	Reward      string  `yaml:"reward"`
	Name        string  `yaml:"name"`
	Probability float64 `yaml:"probability"`
	Frequency   float64 `yaml:"frequency"`
}

type simulatedArea struct {
	Area        string           `yaml:"area"`
	Casts       int              `yaml:"casts"`
	Entries     []simulatedEntry `yaml:"entries"`
	Residual    float64          `yaml:"residual"`
	MissRate    float64          `yaml:"miss_rate"`
	MaxAbsError float64          `yaml:"max_abs_error"`
}

func newSimulateCmd(a *app) *cobra.Command {
	var (
		casts int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "simulate <id>",
		Short: "Sample casts in a location and compare with resolved probabilities",
		Long: `Simulate individual casts in every area of a location and print the
observed catch frequencies next to the resolved probabilities. A seed of 0
draws from crypto/rand; any other seed is reproducible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.build(); err != nil {
				return err
			}
			src := dice.NewCryptoSource()
			if seed != 0 {
				src = dice.NewSeededSource(seed)
			}
			ctx := a.cfg.Player.Context()
			results, err := a.engine.ResolveLocation(args[0], ctx)
			if err != nil {
				return err
			}
			tallies, err := simulate.New(a.engine, src, a.logger).Location(args[0], ctx, casts)
			if err != nil {
				return err
			}
			if len(results) != len(tallies) {
				return fmt.Errorf("simulated %d areas but resolved %d", len(tallies), len(results))
			}

			out := make([]simulatedArea, 0, len(tallies))
			for i, tally := range tallies {
				res := results[i]
				area := simulatedArea{
					Area:     areaLabel(tally.AreaID),
					Casts:    tally.Casts,
					Entries:  make([]simulatedEntry, 0, len(tally.Candidates)),
					Residual: res.Residual,
					MissRate: tally.MissRate(),
				}
				area.MaxAbsError = absDiff(area.Residual, area.MissRate)
				for j, c := range tally.Candidates {
					e := simulatedEntry{
						Reward:      c.PrimaryID(),
						Name:        c.Name(),
						Probability: res.Entries[j].Probability,
						Frequency:   tally.Frequency(j),
					}
					area.MaxAbsError = max(area.MaxAbsError, absDiff(e.Probability, e.Frequency))
					area.Entries = append(area.Entries, e)
				}
				out = append(out, area)
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVarP(&casts, "casts", "n", 100_000, "casts to simulate per area")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed; 0 uses crypto/rand")
	return cmd
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
