package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/typeweave/typeweave"
	"github.com/typeweave/typeweave/config"
)

var (
	generateConfig   string
	generateOut      string
	generateDryRun   bool
	generateSnapshot string
	generateWatch    bool
)

// GenerateCmd represents the generate command.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate TypeScript sources from the configured schema",
	Long: `Generate runs the configured plugins over the database schema and writes
the TypeScript file tree. The schema comes from a live introspection of the
database named in the config file, or from a snapshot produced by
"typeweave inspect" when --snapshot is given.

With --watch the command keeps running and re-generates whenever the config
file (or the snapshot) changes. Stop it with Ctrl-C.`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateConfig, "config", "c", config.DefaultPath, "Config file")
	GenerateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output directory (overrides the config)")
	GenerateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Report what would be written without writing it")
	GenerateCmd.Flags().StringVar(&generateSnapshot, "snapshot", "", "Generate from a schema snapshot instead of a live database")
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Re-generate when the config or snapshot changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := generateOnce(ctx, cmd, log); err != nil {
		if !generateWatch {
			return err
		}
		// Watch mode keeps running after a failed pass.
		log.Errorw("generation failed", "error", err)
	}
	if !generateWatch {
		return nil
	}
	return watchLoop(ctx, cmd, log)
}

func generateOnce(ctx context.Context, cmd *cobra.Command, log *zap.SugaredLogger) error {
	cfg, err := config.Load(generateConfig)
	if err != nil {
		return err
	}
	result, report, err := typeweave.Run(ctx, cfg, typeweave.Options{
		DryRun:    generateDryRun,
		OutputDir: generateOut,
		Snapshot:  generateSnapshot,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	if report.DryRun {
		cmd.Printf("would write %d files (%d bytes):\n", len(report.Written), report.Bytes)
		for _, path := range report.Written {
			cmd.Printf("  %s\n", path)
		}
		return nil
	}
	cmd.Printf("✓ wrote %d files (%d bytes) in %s\n",
		len(report.Written), report.Bytes, result.Stats.Elapsed.Round(time.Millisecond))
	return nil
}

// watchLoop re-runs generation, debounced, whenever a watched file changes.
// Editors replace files on save; Remove and Rename re-arm the watch on the
// same path.
func watchLoop(ctx context.Context, cmd *cobra.Command, log *zap.SugaredLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("typeweave: create watcher: %w", err)
	}
	defer watcher.Close()

	paths := []string{generateConfig}
	if generateSnapshot != "" {
		paths = append(paths, generateSnapshot)
	}
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("typeweave: watch %s: %w", path, err)
		}
	}
	log.Infow("watching for changes", "paths", paths)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Infow("watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				watcher.Add(event.Name)
			} else if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debugw("change detected", "file", event.Name, "op", event.Op.String())
			debounce = time.After(250 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorw("watch error", "error", err)
		case <-debounce:
			debounce = nil
			if err := generateOnce(ctx, cmd, log); err != nil {
				log.Errorw("generation failed", "error", err)
			}
		}
	}
}
