package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/craftgear/extract-model-info-json/internal/db"
	"github.com/craftgear/extract-model-info-json/internal/orchestrator"
	"github.com/craftgear/extract-model-info-json/internal/progress"
	"github.com/craftgear/extract-model-info-json/internal/report"
)

var (
	progressMode string
	reportPath   string
)

// scanCmd runs one full extraction pass over a directory tree.
var scanCmd = &cobra.Command{
	Use:   "scan ROOT_DIR",
	Short: "Scan a tree for weight directories and extract model_info.json",
	Long: `Walks every directory under ROOT_DIR. Directories holding a .safetensors
file are inspected: each zip archive directly inside is searched for a
model_info.json entry, which is written next to the archive (overwriting any
previous copy). Invalid archives are reported and skipped.

Every archive outcome is recorded in the event-log database; --report
additionally writes a Parquet file with one row per inspected archive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := getLogger()
		cfg := getConfig()
		conn := getDB()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		root := args[0]
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("root not found: %s", root)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", root)
		}
		cfg.Root = root

		var reporter progress.Reporter
		var spin *progress.Spinner
		switch progressMode {
		case "spinner":
			spin = progress.NewSpinner(os.Stderr)
			reporter = spin
		case "line":
			reporter = progress.NewLine(os.Stderr)
		case "none":
			reporter = progress.Nop{}
		default:
			return fmt.Errorf("invalid progress mode: %s (use spinner, line or none)", progressMode)
		}

		runID := db.NewRunID()
		recorders := orchestrator.MultiRecorder{
			db.EventRecorder{DB: conn, RunID: runID, Logger: logger},
		}

		var rep *report.Writer
		if reportPath != "" {
			rep, err = report.NewWriter(reportPath)
			if err != nil {
				return err
			}
			recorders = append(recorders, rep)
		}

		ports := orchestrator.DefaultPorts()
		ports.Recorder = recorders

		if err := db.LogRunEvent(ctx, conn, runID, db.EventRunStart, root, "", ""); err != nil {
			logger.Warn("Failed to record run start.", "error", err)
		}

		snap, runErr := orchestrator.Run(ctx, cfg, logger, ports, reporter)
		if runErr != nil && spin != nil {
			// Fatal runs skip Finish, so shut the program down by hand.
			spin.Stop()
		}

		summary := fmt.Sprintf("directories: %d weight_dirs: %d zip_checked: %d extracted: %d",
			snap.DirsScanned, snap.WeightDirs, snap.ArchivesChecked, snap.Extracted)
		if runErr != nil {
			summary = fmt.Sprintf("aborted: %v", runErr)
		}
		if err := db.LogRunEvent(ctx, conn, runID, db.EventRunEnd, root, "", summary); err != nil {
			logger.Warn("Failed to record run end.", "error", err)
		}

		if rep != nil {
			// Report trouble never changes the run outcome.
			if err := rep.Close(); err != nil {
				logger.Error("Failed to write scan report.", "error", err)
			}
		}

		if runErr != nil {
			return runErr
		}

		fmt.Println(summary)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&progressMode, "progress", "spinner", "Progress rendering (spinner, line or none)")
	scanCmd.Flags().StringVar(&reportPath, "report", "", "Write a Parquet scan report to this path")
}
