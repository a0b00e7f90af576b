package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/craftgear/extract-model-info-json/internal/db"
)

var (
	historyLimit int
	historyEvent string
)

// historyCmd shows the event log of past scan runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the event log of past scan runs",
	Long: `Queries the DuckDB event log and displays recent scan events, newest first.
Use --event to filter by a single event type (run_start, run_end, extracted,
not_found, invalid_archive) and --limit to bound the output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		switch historyEvent {
		case "", db.EventRunStart, db.EventRunEnd, db.EventExtracted, db.EventNotFound, db.EventInvalidArchive:
		default:
			return fmt.Errorf("invalid event filter: %s", historyEvent)
		}

		return db.DisplayRunHistory(ctx, getDB(), historyEvent, historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Limit the number of log records displayed")
	historyCmd.Flags().StringVarP(&historyEvent, "event", "e", "", "Filter records by event type")
}
