package progress_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftgear/extract-model-info-json/internal/progress"
	"github.com/craftgear/extract-model-info-json/internal/stats"
)

func TestLineWritesUpdates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := progress.NewLine(&buf)

	r.Start("/tmp")
	snap := stats.Snapshot{DirsScanned: 2, WeightDirs: 1, ArchivesChecked: 1, Extracted: 1}
	r.Update(snap)
	r.Finish(snap)

	out := buf.String()
	require.Contains(t, out, "scanning: /tmp")
	require.Contains(t, out, "dirs: 2 weights: 1 zip: 1 extracted: 1")
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestLineStartOnlyOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := progress.NewLine(&buf)

	r.Start("/tmp")
	r.Start("/tmp")

	require.Equal(t, 1, strings.Count(buf.String(), "scanning: /tmp"))
}

func TestLineSuppressesUnchangedSnapshots(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := progress.NewLine(&buf)

	snap := stats.Snapshot{DirsScanned: 1}
	r.Update(snap)
	r.Update(snap)
	r.Update(snap)

	require.Equal(t, 1, strings.Count(buf.String(), "dirs: 1"))
}

func TestLineReportsInvalidArchive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := progress.NewLine(&buf)

	r.Start("/tmp")
	r.InvalidArchive("/tmp/bad.zip", "zip: not a valid zip file")

	require.Contains(t, buf.String(), "invalid zip: /tmp/bad.zip (zip: not a valid zip file)")
}

func TestNopDoesNothing(t *testing.T) {
	t.Parallel()

	// Nop must be safe to call in any order from any goroutine.
	var r progress.Nop
	r.Start("/tmp")
	r.Update(stats.Snapshot{})
	r.InvalidArchive("x", "y")
	r.Finish(stats.Snapshot{})
}
