package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tmppg %s (commit: %s, built: %s, %s/%s)\n",
			Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
	},
}
