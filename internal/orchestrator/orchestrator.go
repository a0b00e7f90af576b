// Package orchestrator drives a full extraction run: enumerate every
// directory under a root, then fan out one worker lane per directory that
// classifies the listing, inspects candidate archives and updates the shared
// counters.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/craftgear/extract-model-info-json/internal/archive"
	"github.com/craftgear/extract-model-info-json/internal/config"
	"github.com/craftgear/extract-model-info-json/internal/progress"
	"github.com/craftgear/extract-model-info-json/internal/scan"
	"github.com/craftgear/extract-model-info-json/internal/stats"
)

// Walker enumerates every directory under root, the root itself included,
// without following symlinks. A fault here is run-fatal.
type Walker interface {
	Walk(ctx context.Context, root string) ([]string, error)
}

// Lister returns the regular files directly inside dir, non-recursive.
// A fault here is run-fatal too: unlike a broken archive, an unlistable
// directory means the scan itself cannot proceed.
type Lister interface {
	List(dir string) ([]string, error)
}

// Recorder observes the outcome of every archive inspection. Implementations
// must be safe for concurrent use; failures are theirs to absorb, a Recorder
// cannot alter the run.
type Recorder interface {
	RecordArchive(dir, archivePath string, outcome archive.Outcome)
}

// MultiRecorder fans one archive outcome out to several recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordArchive(dir, archivePath string, outcome archive.Outcome) {
	for _, r := range m {
		r.RecordArchive(dir, archivePath, outcome)
	}
}

// Ports bundles the collaborators a run needs. Recorder may be nil.
type Ports struct {
	Walker    Walker
	Lister    Lister
	Inspector archive.Inspector
	Recorder  Recorder
}

// DefaultPorts returns Ports backed by the local filesystem.
func DefaultPorts() Ports {
	return Ports{
		Walker:    FSWalker{},
		Lister:    FSLister{},
		Inspector: archive.ZipInspector{},
	}
}

// Run executes one extraction run under cfg.Root and returns the final
// counter snapshot. Enumeration completes fully before any lane starts; the
// reporter's Finish fires only after every lane has joined. On an
// enumeration or listing fault Run returns the error and a zero snapshot —
// no partial results.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, ports Ports, reporter progress.Reporter) (stats.Snapshot, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	counters := &stats.Counters{}
	reporter.Start(cfg.Root)

	dirs, err := ports.Walker.Walk(ctx, cfg.Root)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("enumerate directories under %s: %w", cfg.Root, err)
	}
	logger.Info("Directory enumeration complete.", slog.Int("directories", len(dirs)))

	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = config.DefaultNumWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, dir := range dirs {
		g.Go(func() error {
			return scanDirectory(gctx, counters, logger, ports, reporter, dir)
		})
	}
	if err := g.Wait(); err != nil {
		return stats.Snapshot{}, err
	}

	final := counters.Snapshot()
	reporter.Finish(final)
	logger.Info("Extraction run complete.",
		slog.Uint64("directories_scanned", final.DirsScanned),
		slog.Uint64("weight_directories", final.WeightDirs),
		slog.Uint64("archives_checked", final.ArchivesChecked),
		slog.Uint64("extracted", final.Extracted),
	)
	return final, nil
}

// scanDirectory is one lane: list, classify, inspect. Lanes never wait on
// each other; the shared counters are the only state they touch in common.
func scanDirectory(ctx context.Context, counters *stats.Counters, logger *slog.Logger, ports Ports, reporter progress.Reporter, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	counters.IncDirsScanned()

	files, err := ports.Lister.List(dir)
	if err != nil {
		return fmt.Errorf("list files in %s: %w", dir, err)
	}

	cls := scan.Classify(files)
	if !cls.HasWeights {
		reporter.Update(counters.Snapshot())
		return nil
	}

	counters.IncWeightDirs()
	reporter.Update(counters.Snapshot())

	l := logger.With(slog.String("directory", dir))
	l.Debug("Weights directory found.", slog.Int("candidate_archives", len(cls.Archives)))

	for _, archivePath := range cls.Archives {
		if err := ctx.Err(); err != nil {
			return err
		}

		counters.IncArchivesChecked()
		outcome := ports.Inspector.Inspect(archivePath, scan.ModelInfoFileName, dir)
		switch outcome.Status {
		case archive.StatusExtracted:
			counters.IncExtracted()
			l.Info("Extracted model info.", slog.String("archive", archivePath))
		case archive.StatusInvalid:
			l.Warn("Invalid archive, skipping.",
				slog.String("archive", archivePath), slog.String("reason", outcome.Reason))
			reporter.InvalidArchive(archivePath, outcome.Reason)
		case archive.StatusNotFound:
			// Absence of the entry is not an error.
		}

		if ports.Recorder != nil {
			ports.Recorder.RecordArchive(dir, archivePath, outcome)
		}
		reporter.Update(counters.Snapshot())
	}

	return nil
}
