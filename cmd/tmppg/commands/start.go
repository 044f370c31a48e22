package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/circuithub/tmp-postgres/internal/cli/output"
	"github.com/circuithub/tmp-postgres/internal/logger"
	"github.com/circuithub/tmp-postgres/pkg/config"
	"github.com/circuithub/tmp-postgres/pkg/partial"
	"github.com/circuithub/tmp-postgres/pkg/plan"
	"github.com/circuithub/tmp-postgres/pkg/tmppostgres"
)

var (
	startPort       int
	startDBName     string
	startMigrations string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an ephemeral Postgres instance",
	Long: `Start an ephemeral Postgres instance and keep it running until
interrupted. On Ctrl+C the server is stopped and every temporary directory
is removed.

Examples:
  # Random free port, temporary directories
  tmppg start

  # Pin the port and create a database
  tmppg start --port 5433 --dbname app_test

  # Apply golang-migrate migrations once the server is ready
  tmppg start --dbname app_test --migrations ./migrations

  # Environment variable overrides
  TMPPG_INSTANCE_CACHE_INIT_DB=true tmppg start`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().IntVarP(&startPort, "port", "p", 0, "Listen port (default: a random free port)")
	startCmd.Flags().StringVarP(&startDBName, "dbname", "d", "", "Database to connect to, created if missing")
	startCmd.Flags().StringVar(&startMigrations, "migrations", "", "Migration directory to apply after startup")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := printer()
	if err != nil {
		return err
	}

	// Flags beat file and environment.
	if startPort != 0 {
		cfg.Instance.Port = startPort
	}
	if startDBName != "" {
		cfg.Connection.DBName = startDBName
	}
	if startMigrations != "" {
		cfg.Migrations.Path = startMigrations
	}

	var silent *os.File
	if cfg.Instance.Quiet {
		if silent, err = plan.OpenDevNull(); err != nil {
			return err
		}
		defer silent.Close()
	}

	pc := provisionConfig(cfg, silent)

	logger.Info("configuration loaded", "source", configSource())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inst, err := tmppostgres.Start(ctx, pc)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := inst.Stop(); stopErr != nil {
			logger.Error("shutdown error", "error", stopErr)
		}
	}()

	if cfg.Migrations.Path != "" {
		logger.Info("applying migrations", "path", cfg.Migrations.Path)
		if err := inst.Migrate(cfg.Migrations.Path); err != nil {
			return err
		}
	}

	if err := printInstance(p, inst); err != nil {
		return err
	}
	p.Success(fmt.Sprintf("Postgres is running on port %d. Press Ctrl+C to stop.", inst.Port()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	<-sigChan

	logger.Info("shutdown signal received")
	return nil
}

// provisionConfig converts the CLI configuration into a provisioning config
// that carries the global logger.
func provisionConfig(cfg *config.Config, silent *os.File) tmppostgres.Config {
	pc := cfg.ProvisionConfig(silent)
	pc.Plan.Logger = partial.Some(logger.L())
	return pc
}

// instanceInfo is the structured shape of `start` and `plan` output.
type instanceInfo struct {
	ConnInfo        string `json:"conninfo" yaml:"conninfo"`
	Port            int    `json:"port" yaml:"port"`
	SocketDirectory string `json:"socket_directory" yaml:"socket_directory"`
	DataDirectory   string `json:"data_directory" yaml:"data_directory"`
}

func printInstance(p *output.Printer, inst *tmppostgres.Instance) error {
	return printResources(p, inst.ConnString(), inst.Port(), inst.Resources)
}

func printResources(p *output.Printer, conninfo string, port int, res *tmppostgres.Resources) error {
	if p.Format() == output.FormatTable {
		var kv output.KV
		kv.Set("conninfo", conninfo)
		kv.Set("port", fmt.Sprint(port))
		kv.Set("socket directory", res.SocketDir.Path)
		kv.Set("data directory", res.DataDir.Path)
		return p.Print(kv)
	}
	return p.Print(instanceInfo{
		ConnInfo:        conninfo,
		Port:            port,
		SocketDirectory: res.SocketDir.Path,
		DataDirectory:   res.DataDir.Path,
	})
}
