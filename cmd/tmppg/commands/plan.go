package commands

import (
	"github.com/spf13/cobra"

	"github.com/circuithub/tmp-postgres/internal/cli/output"
	"github.com/circuithub/tmp-postgres/internal/logger"
	"github.com/circuithub/tmp-postgres/pkg/tmppostgres"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the execution plan without starting a server",
	Long: `Resolve the configuration into its execution plan: acquire a port
and directories, validate the merged plan, print it, and release everything
again. Nothing is started.

Useful for checking what a configuration would do, and for debugging
validation failures: a failing plan prints every missing option at once.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := printer()
	if err != nil {
		return err
	}

	res, err := tmppostgres.Setup(cfg.ProvisionConfig(nil))
	if err != nil {
		return err
	}
	defer func() {
		if relErr := res.Release(); relErr != nil {
			logger.Error("release error", "error", relErr)
		}
	}()

	port, _ := res.Plan.Postgres.Options.Port.Get()
	if err := printResources(p, res.Plan.Postgres.ConnString(), port, res); err != nil {
		return err
	}

	if p.Format() == output.FormatTable {
		argv := append([]string{"postgres"}, res.Plan.Postgres.Config.Argv...)
		p.Println()
		p.Printf("server command: %v\n", argv)
		if res.Plan.InitDB != nil {
			p.Printf("initdb command: %v\n", append([]string{"initdb"}, res.Plan.InitDB.Argv...))
		}
		if res.Plan.CreateDB != nil {
			p.Printf("createdb command: %v\n", append([]string{"createdb"}, res.Plan.CreateDB.Argv...))
		}
		p.Printf("connection timeout: %s\n", res.Plan.ConnectionTimeout)
		p.Printf("initdb cache: %v\n", res.Plan.CacheInitDB)
	}

	return nil
}
