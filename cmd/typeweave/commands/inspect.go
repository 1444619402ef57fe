package commands

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/typeweave/typeweave"
	"github.com/typeweave/typeweave/config"
	"github.com/typeweave/typeweave/schema"
)

var (
	inspectConfig string
	inspectOut    string
	inspectJSON   bool
)

// InspectCmd represents the inspect command.
var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the database schema",
	Long: `Inspect connects to the database named in the config file and reads its
schema: tables, columns, keys, relations, and enums. With --out the model is
written as a snapshot file that "typeweave generate --snapshot" consumes;
otherwise it is printed as JSON.`,
	RunE: runInspect,
}

func init() {
	InspectCmd.Flags().StringVarP(&inspectConfig, "config", "c", config.DefaultPath, "Config file")
	InspectCmd.Flags().StringVarP(&inspectOut, "out", "o", "", "Snapshot file to write (default: print JSON)")
	InspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the model as JSON even when writing a snapshot")
}

func runInspect(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(inspectConfig)
	if err != nil {
		return err
	}
	model, err := typeweave.Inspect(ctx, cfg, log)
	if err != nil {
		return err
	}

	if inspectOut != "" {
		if err := schema.WriteSnapshotFile(inspectOut, model); err != nil {
			return err
		}
		cmd.Printf("✓ wrote snapshot %s (%d entities, %d enums)\n",
			inspectOut, len(model.Entities), len(model.Enums))
	}
	if inspectOut == "" || inspectJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(model); err != nil {
			return err
		}
	}
	return nil
}
