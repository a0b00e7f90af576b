package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftgear/extract-model-info-json/internal/archive"
	"github.com/craftgear/extract-model-info-json/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("duckdb", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.InitializeSchema(conn))
	return conn
}

func countEvents(t *testing.T, conn *sql.DB, runID, event string) int {
	t.Helper()

	var n int
	row := conn.QueryRowContext(context.Background(),
		`SELECT count(*) FROM scan_event_log WHERE run_id = ? AND event = ?`, runID, event)
	require.NoError(t, row.Scan(&n))
	return n
}

func TestInitializeSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, db.InitializeSchema(conn))
}

func TestLogRunEvent(t *testing.T) {
	conn := openTestDB(t)
	runID := db.NewRunID()

	require.NoError(t, db.LogRunEvent(context.Background(), conn, runID, db.EventRunStart, "/data", "", ""))
	require.NoError(t, db.LogRunEvent(context.Background(), conn, runID, db.EventRunEnd, "/data", "", "extracted: 2"))

	require.Equal(t, 1, countEvents(t, conn, runID, db.EventRunStart))
	require.Equal(t, 1, countEvents(t, conn, runID, db.EventRunEnd))
}

func TestEventRecorderMapsOutcomes(t *testing.T) {
	conn := openTestDB(t)
	runID := db.NewRunID()
	rec := db.EventRecorder{DB: conn, RunID: runID}

	rec.RecordArchive("/m", "/m/a.zip", archive.Outcome{Status: archive.StatusExtracted})
	rec.RecordArchive("/m", "/m/b.zip", archive.Outcome{Status: archive.StatusNotFound})
	rec.RecordArchive("/m", "/m/c.zip", archive.Outcome{Status: archive.StatusInvalid, Reason: "zip: not a valid zip file"})

	require.Equal(t, 1, countEvents(t, conn, runID, db.EventExtracted))
	require.Equal(t, 1, countEvents(t, conn, runID, db.EventNotFound))
	require.Equal(t, 1, countEvents(t, conn, runID, db.EventInvalidArchive))

	var reason string
	row := conn.QueryRowContext(context.Background(),
		`SELECT message FROM scan_event_log WHERE run_id = ? AND event = ?`, runID, db.EventInvalidArchive)
	require.NoError(t, row.Scan(&reason))
	require.Equal(t, "zip: not a valid zip file", reason)
}

func TestDisplayRunHistory(t *testing.T) {
	conn := openTestDB(t)
	runID := db.NewRunID()
	require.NoError(t, db.LogRunEvent(context.Background(), conn, runID, db.EventRunStart, "/data", "", ""))

	// Smoke test: both filtered and unfiltered paths must not error.
	require.NoError(t, db.DisplayRunHistory(context.Background(), conn, "", 10))
	require.NoError(t, db.DisplayRunHistory(context.Background(), conn, db.EventRunStart, 10))
}
