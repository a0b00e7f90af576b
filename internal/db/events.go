// Package db persists a per-run event history to DuckDB so past scans can be
// inspected after the fact with the history command.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver

	"github.com/craftgear/extract-model-info-json/internal/archive"
)

// Constants for event types
const (
	EventRunStart       = "run_start"
	EventRunEnd         = "run_end"
	EventExtracted      = "extracted"
	EventNotFound       = "not_found"
	EventInvalidArchive = "invalid_archive"
)

// Schema SQL
const schemaSequenceSQL = `CREATE SEQUENCE IF NOT EXISTS scan_event_id_seq;`
const schemaTableSQL = `
CREATE TABLE IF NOT EXISTS scan_event_log (
    log_id          BIGINT PRIMARY KEY DEFAULT nextval('scan_event_id_seq'),
    run_id          VARCHAR NOT NULL,
    event           VARCHAR NOT NULL,
    event_timestamp TIMESTAMP NOT NULL,
    directory       VARCHAR,
    archive_path    VARCHAR,
    message         VARCHAR
);
CREATE INDEX IF NOT EXISTS idx_scan_event_log_run ON scan_event_log (run_id, event);
CREATE INDEX IF NOT EXISTS idx_scan_event_log_time ON scan_event_log (event, event_timestamp);
`

// NewRunID returns an identifier tying all events of one run together.
func NewRunID() string {
	return time.Now().UTC().Format("20060102T150405.000000000")
}

// InitializeSchema creates the sequence and table in the correct order.
func InitializeSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSequenceSQL)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return fmt.Errorf("failed to execute sequence setup: %w", err)
	}
	_, err = db.Exec(schemaTableSQL)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return fmt.Errorf("failed to execute table/index setup: %w", err)
	}
	return nil
}

// LogRunEvent inserts a new event record into the log.
func LogRunEvent(ctx context.Context, db *sql.DB, runID, event, directory, archivePath, message string) error {
	query := `
        INSERT INTO scan_event_log (run_id, event, event_timestamp, directory, archive_path, message)
        VALUES (?, ?, ?, ?, ?, ?);
    `
	_, err := db.ExecContext(ctx, query,
		runID,
		event,
		time.Now().UTC(),
		sql.NullString{String: directory, Valid: directory != ""},
		sql.NullString{String: archivePath, Valid: archivePath != ""},
		sql.NullString{String: message, Valid: message != ""},
	)
	if err != nil {
		return fmt.Errorf("failed to log event '%s' for run '%s': %w", event, runID, err)
	}
	return nil
}

// EventRecorder persists every archive inspection outcome as one event row.
// It implements the orchestrator's Recorder port. Insert failures are logged
// and swallowed: the history is best-effort and must never fail a run.
type EventRecorder struct {
	DB     *sql.DB
	RunID  string
	Logger *slog.Logger
}

func (r EventRecorder) RecordArchive(dir, archivePath string, outcome archive.Outcome) {
	var event string
	switch outcome.Status {
	case archive.StatusExtracted:
		event = EventExtracted
	case archive.StatusNotFound:
		event = EventNotFound
	case archive.StatusInvalid:
		event = EventInvalidArchive
	default:
		event = outcome.Status.String()
	}

	err := LogRunEvent(context.Background(), r.DB, r.RunID, event, dir, archivePath, outcome.Reason)
	if err != nil && r.Logger != nil {
		r.Logger.Warn("Failed to record archive event.",
			slog.String("archive", archivePath), "error", err)
	}
}

// DisplayRunHistory queries and prints the event log, newest first.
func DisplayRunHistory(ctx context.Context, db *sql.DB, eventFilter string, limit int) error {
	query := `
        SELECT run_id, event, event_timestamp, directory, archive_path, message
        FROM scan_event_log
    `
	args := []any{}
	argCounter := 1

	if eventFilter != "" {
		query += fmt.Sprintf(" WHERE event = $%d", argCounter)
		args = append(args, eventFilter)
		argCounter++
	}

	query += fmt.Sprintf(" ORDER BY event_timestamp DESC, log_id DESC LIMIT $%d", argCounter)
	args = append(args, limit)

	fmt.Printf("--- Scan Event History (Limit %d) ---\n", limit)
	fmt.Printf("%-28s | %-15s | %-25s | %-40s | %s\n", "Run", "Event", "Timestamp (UTC)", "Archive", "Message")
	fmt.Println(strings.Repeat("-", 140))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query event log: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var runID, event string
		var timestamp time.Time
		var directory, archivePath, message sql.NullString
		if err := rows.Scan(&runID, &event, &timestamp, &directory, &archivePath, &message); err != nil {
			return fmt.Errorf("failed to scan event log row: %w", err)
		}

		detail := message.String
		if detail == "" {
			detail = directory.String
		}
		fmt.Printf("%-28s | %-15s | %-25s | %-40s | %s\n",
			runID, event, timestamp.Format(time.RFC3339), archivePath.String, detail)
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed iterating event log: %w", err)
	}
	if count == 0 {
		fmt.Println("(no events recorded)")
	}
	return nil
}
