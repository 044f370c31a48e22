package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/circuithub/tmp-postgres/internal/cli/prompt"
	"github.com/circuithub/tmp-postgres/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Write a commented sample configuration file.

By default the file is created at $XDG_CONFIG_HOME/tmppg/config.yaml.
Use --config to pick a custom path.

Examples:
  tmppg init
  tmppg init --config ./tmppg.yaml
  tmppg init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	force := initForce
	if _, err := os.Stat(path); err == nil {
		ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Overwrite %s?", path), force)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
		force = true
	}

	if err := config.InitConfigToPath(path, force); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the file to customize your setup (everything is optional)")
	fmt.Println("  2. Start an instance with: tmppg start")
	return nil
}
