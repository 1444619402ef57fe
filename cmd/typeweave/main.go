package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/typeweave/typeweave/cmd/typeweave/commands"
)

var rootCmd = &cobra.Command{
	Use:   "typeweave",
	Short: "Generate TypeScript sources from your database schema",
	Long: `typeweave generates TypeScript sources from a relational database schema:
model interfaces, zod validators, a knex client, per-entity query helpers,
and a barrel index, produced by plugins scheduled through the capabilities
they provide and require.

Examples:
  typeweave generate                      # generate using ./typeweave.yaml
  typeweave generate --dry-run            # show what would be written
  typeweave generate --watch              # re-generate on config changes
  typeweave inspect -o app.snapshot       # snapshot the schema for offline runs
  typeweave generate --snapshot app.snapshot`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
