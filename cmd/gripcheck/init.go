package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/gripcheck/internal/company"
	"github.com/erazemk/gripcheck/internal/model"
	"github.com/erazemk/gripcheck/internal/notify"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var name, level string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the company profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg, notify.Log{})
			if err != nil {
				return err
			}
			defer svc.close()

			profile, err := svc.company.Onboard(cmd.Context(), company.Setup{
				Name:  name,
				Level: model.ProductionLevel(level),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Company created: %s (%s)\n", profile.Name, profile.Level)
			fmt.Fprintf(out, "Inventory: %d items, crew: %d members\n", len(svc.engine.List()), len(svc.crew.List()))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "company", "", "production company name")
	cmd.Flags().StringVar(&level, "level", string(model.LevelIndie), "production level: Indie, Commercial, Studio or Union")
	cmd.MarkFlagRequired("company")
	return cmd
}
