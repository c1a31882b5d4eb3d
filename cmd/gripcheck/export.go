package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/gripcheck/internal/api"
	"github.com/erazemk/gripcheck/internal/export"
	"github.com/erazemk/gripcheck/internal/inventory"
	"github.com/erazemk/gripcheck/internal/notify"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out, search, category, status, holder, sortKey string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the equipment manifest to an XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := api.ParseFilter(map[string][]string{
				"search":   {search},
				"category": {category},
				"status":   {status},
				"holder":   {holder},
				"sort":     {sortKey},
			})
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg, notify.Discard{})
			if err != nil {
				return err
			}
			defer svc.close()

			items := inventory.Apply(svc.engine.List(), filter)

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := export.WriteXLSX(f, items); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d items to %s\n", len(items), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "gripcheck-manifest.xlsx", "output file")
	cmd.Flags().StringVar(&search, "search", "", "match name or serial number")
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&holder, "holder", "", "current holder filter")
	cmd.Flags().StringVar(&sortKey, "sort", "name", "sort by name, serial or last-checked")
	return cmd
}
