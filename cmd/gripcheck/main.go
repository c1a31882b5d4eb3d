// Command gripcheck runs the grip and electric equipment tracker.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/erazemk/gripcheck/internal/config"
)

type rootOptions struct {
	configPath string
	dbPath     string
	logPath    string

	closeLog func()
}

// loadConfig reads the config file and applies the persistent flag
// overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{closeLog: func() {}}

	root := &cobra.Command{
		Use:          "gripcheck",
		Short:        "Equipment tracker for grip and electric departments",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogger(opts.logPath)
			if err != nil {
				return err
			}
			opts.closeLog = closeLog
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.closeLog()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("GRIPCHECK_CONFIG"), "YAML config file (or set GRIPCHECK_CONFIG)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides storage.path)")
	root.PersistentFlags().StringVar(&opts.logPath, "log", "", "log file path (default: stdout/stderr only)")

	root.AddCommand(newServeCmd(opts), newInitCmd(opts), newExportCmd(opts))
	return root
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
