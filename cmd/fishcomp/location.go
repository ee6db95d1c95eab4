package main

import (
	"github.com/spf13/cobra"
)

func newLocationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "location [ids...]",
		Short: "Resolve catch probabilities for locations",
		Long: `Resolve every area of the named locations, or of all locations when none
are named, and print the eligible catches with their probability, expected
value and experience.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.build(); err != nil {
				return err
			}
			ids := args
			if len(ids) == 0 {
				ids = a.catalog.LocationIDs()
			}
			results, err := a.engine.ResolveBatch(ids, a.cfg.Player.Context())
			if err != nil {
				return err
			}
			reports := make([]locationReport, 0, len(results))
			for _, lr := range results {
				reports = append(reports, newLocationReport(lr))
			}
			return writeYAML(cmd.OutOrStdout(), reports)
		},
	}
}
