package gen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Writer persists assembled files under an output directory. Writes run in
// parallel with a worker limit; each file lands through a uniquely named
// temp file and a rename, so readers never observe partial content.
type Writer struct {
	dir       string
	workers   int
	dryRun    bool
	formatter string
	log       *zap.SugaredLogger
}

// WriteReport summarizes a write.
type WriteReport struct {
	// Written lists the written paths relative to the output directory,
	// sorted.
	Written []string

	// Bytes is the total content size.
	Bytes int64

	// DryRun reports whether the write only simulated.
	DryRun bool

	// Formatted reports whether the formatter command ran.
	Formatted bool
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:     dir,
		workers: runtime.GOMAXPROCS(0),
		log:     zap.NewNop().Sugar(),
	}
}

// WithWorkers sets the number of parallel write workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithDryRun toggles dry-run mode. A dry run reports what would be written
// without touching disk.
func (w *Writer) WithDryRun(dry bool) *Writer {
	w.dryRun = dry
	return w
}

// WithFormatter sets an external formatter command, e.g.
// "npx prettier --write". The command is split on whitespace and receives
// the written file paths as trailing arguments, once, after all writes.
func (w *Writer) WithFormatter(command string) *Writer {
	w.formatter = command
	return w
}

// WithLogger sets the logger.
func (w *Writer) WithLogger(logger *zap.SugaredLogger) *Writer {
	if logger != nil {
		w.log = logger
	}
	return w
}

// Write persists the files and returns a report of what was written.
func (w *Writer) Write(ctx context.Context, files []File) (*WriteReport, error) {
	report := &WriteReport{DryRun: w.dryRun}
	for _, f := range files {
		report.Written = append(report.Written, f.Path)
		report.Bytes += int64(len(f.Content))
	}
	slices.Sort(report.Written)
	if w.dryRun {
		w.log.Infow("dry run, nothing written", "files", len(files), "bytes", report.Bytes)
		return report, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		f := f
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if w.formatter != "" && len(files) > 0 {
		if err := w.format(ctx, report.Written); err != nil {
			return nil, err
		}
		report.Formatted = true
	}
	w.log.Infow("files written", "dir", w.dir, "files", len(files), "bytes", report.Bytes)
	return report, nil
}

// writeFile writes one file through a temp file in the target directory and
// renames it into place.
func (w *Writer) writeFile(f File) error {
	full := filepath.Join(w.dir, filepath.FromSlash(f.Path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.Path, err)
	}
	tmp := full + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tmp, f.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", f.Path, err)
	}
	return nil
}

// format runs the formatter command once over all written files.
func (w *Writer) format(ctx context.Context, paths []string) error {
	parts := strings.Fields(w.formatter)
	if len(parts) == 0 {
		return nil
	}
	args := slices.Clone(parts[1:])
	for _, p := range paths {
		args = append(args, filepath.Join(w.dir, filepath.FromSlash(p)))
	}
	cmd := exec.CommandContext(ctx, parts[0], args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("formatter %q: %w: %s", parts[0], err, strings.TrimSpace(string(out)))
	}
	w.log.Debugw("formatter ran", "command", parts[0], "files", len(paths))
	return nil
}
