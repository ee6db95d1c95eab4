package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/fishcomp/internal/game/composition"
	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

type occurrenceReport struct {
	Location    string  `yaml:"location"`
	Area        string  `yaml:"area"`
	Precedence  int     `yaml:"precedence"`
	Eligible    bool    `yaml:"eligible"`
	Reason      string  `yaml:"reason,omitempty"`
	Chance      float64 `yaml:"chance,omitempty"`
	Probability float64 `yaml:"probability,omitempty"`
	Value       float64 `yaml:"value,omitempty"`
	XP          float64 `yaml:"xp,omitempty"`
}

type fishReport struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Price       int                `yaml:"price"`
	Legendary   bool               `yaml:"legendary"`
	Kind        string             `yaml:"kind,omitempty"`
	Occurrences []occurrenceReport `yaml:"occurrences"`
}

func newFishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fish <id>",
		Short: "Show where a reward can be caught",
		Long: `List every location and area that declares the reward, whether it is
eligible under the current context, and if not, the first rule that
excluded it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.build(); err != nil {
				return err
			}
			report, err := a.fishReport(args[0])
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), report)
		},
	}
}

func (a *app) fishReport(id string) (fishReport, error) {
	item, ok := a.catalog.Item(id)
	if !ok {
		return fishReport{}, fmt.Errorf("unknown item %q", id)
	}
	report := fishReport{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Legendary:   item.Legendary(),
		Occurrences: []occurrenceReport{},
	}
	if p, ok := a.catalog.Profile(id); ok {
		report.Kind = string(p.Kind)
	}

	ctx := a.cfg.Player.Context()
	for _, locID := range a.catalog.LocationIDs() {
		loc, _ := a.catalog.Location(locID)
		var results []composition.Result
		for _, c := range loc.Candidates {
			if !slices.Contains(c.RewardIDs, id) {
				continue
			}
			occ := occurrenceReport{
				Location:   locID,
				Area:       areaLabel(c.Area),
				Precedence: c.Precedence,
			}
			occ.Eligible, occ.Reason = a.filter.Check(c, ctx)
			if occ.Eligible {
				if results == nil {
					var err error
					if results, err = a.engine.ResolveLocation(locID, ctx); err != nil {
						return fishReport{}, err
					}
				}
				if err := fillOccurrence(&occ, c, results); err != nil {
					return fishReport{}, err
				}
			}
			report.Occurrences = append(report.Occurrences, occ)
		}
	}
	return report, nil
}

// fillOccurrence copies the resolved numbers of c out of the location's
// area results.
func fillOccurrence(occ *occurrenceReport, c fishing.Candidate, results []composition.Result) error {
	for _, r := range results {
		if r.AreaID != c.Area {
			continue
		}
		for _, e := range r.Entries {
			if e.Candidate.LocationID == c.LocationID && e.Precedence == c.Precedence && slices.Equal(e.Candidate.RewardIDs, c.RewardIDs) {
				occ.Chance = e.Chance
				occ.Probability = e.Probability
				occ.Value = e.Value
				occ.XP = e.XP
				return nil
			}
		}
	}
	return fmt.Errorf("candidate %s in %s/%s missing from resolved results", c.PrimaryID(), c.LocationID, areaLabel(c.Area))
}
