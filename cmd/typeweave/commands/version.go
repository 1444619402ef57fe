package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/typeweave/typeweave"
)

// VersionCmd represents the version command.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the typeweave version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("typeweave %s (%s, %s/%s)\n",
			typeweave.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
