// Package commands implements the tmppg CLI for managing ephemeral Postgres
// instances.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/circuithub/tmp-postgres/internal/cli/output"
	"github.com/circuithub/tmp-postgres/internal/logger"
	"github.com/circuithub/tmp-postgres/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tmppg",
	Short: "tmppg - ephemeral Postgres instances for tests",
	Long: `tmppg provisions throwaway Postgres clusters: it initializes a data
directory, starts a server on a random free port, waits until it accepts
connections, and removes everything again on shutdown.

Use "tmppg [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/tmppg/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(initCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads the configuration and initializes the logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if _, err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// printer builds a Printer for the --output flag.
func printer() (*output.Printer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(os.Stdout, format, format == output.FormatTable), nil
}

// configSource describes where the configuration came from.
func configSource() string {
	if cfgFile != "" {
		return cfgFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
