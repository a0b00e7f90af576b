package archive_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftgear/extract-model-info-json/internal/archive"
)

const targetEntry = "model_info.json"

type zipEntry struct {
	name     string
	contents string
}

func createZip(t *testing.T, path string, entries []zipEntry) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.contents))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestInspectExtractsTargetEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zipPath := filepath.Join(dir, "model.zip")
	createZip(t, zipPath, []zipEntry{{targetEntry, `{"a": 1}`}})

	outcome := archive.ZipInspector{}.Inspect(zipPath, targetEntry, dir)
	require.Equal(t, archive.StatusExtracted, outcome.Status)

	data, err := os.ReadFile(filepath.Join(dir, targetEntry))
	require.NoError(t, err)
	require.Equal(t, `{"a": 1}`, string(data))
}

func TestInspectMatchesNestedEntryByBaseName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zipPath := filepath.Join(dir, "model.zip")
	createZip(t, zipPath, []zipEntry{
		{"other.txt", "nope"},
		{"checkpoints/final/" + targetEntry, "nested"},
	})

	outcome := archive.ZipInspector{}.Inspect(zipPath, targetEntry, dir)
	require.Equal(t, archive.StatusExtracted, outcome.Status)

	data, err := os.ReadFile(filepath.Join(dir, targetEntry))
	require.NoError(t, err)
	require.Equal(t, "nested", string(data))
}

func TestInspectFirstMatchWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zipPath := filepath.Join(dir, "model.zip")
	createZip(t, zipPath, []zipEntry{
		{"a/" + targetEntry, "first"},
		{"b/" + targetEntry, "second"},
	})

	outcome := archive.ZipInspector{}.Inspect(zipPath, targetEntry, dir)
	require.Equal(t, archive.StatusExtracted, outcome.Status)

	data, err := os.ReadFile(filepath.Join(dir, targetEntry))
	require.NoError(t, err)
	require.Equal(t, "first", string(data))
}

func TestInspectSkipsDirectoryEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zipPath := filepath.Join(dir, "model.zip")

	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	// A directory entry whose base name matches must not count as a hit.
	_, err = zw.Create(targetEntry + "/")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	outcome := archive.ZipInspector{}.Inspect(zipPath, targetEntry, dir)
	require.Equal(t, archive.StatusNotFound, outcome.Status)
	require.NoFileExists(t, filepath.Join(dir, targetEntry))
}

func TestInspectNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zipPath := filepath.Join(dir, "model.zip")
	createZip(t, zipPath, []zipEntry{{"other.json", "{}"}})

	outcome := archive.ZipInspector{}.Inspect(zipPath, targetEntry, dir)
	require.Equal(t, archive.StatusNotFound, outcome.Status)
	require.Empty(t, outcome.Reason)
	require.NoFileExists(t, filepath.Join(dir, targetEntry))
}

func TestInspectOverwritesExistingOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zipPath := filepath.Join(dir, "model.zip")
	createZip(t, zipPath, []zipEntry{{targetEntry, "new"}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, targetEntry), []byte("old"), 0o644))

	outcome := archive.ZipInspector{}.Inspect(zipPath, targetEntry, dir)
	require.Equal(t, archive.StatusExtracted, outcome.Status)

	data, err := os.ReadFile(filepath.Join(dir, targetEntry))
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}

func TestInspectInvalidArchives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scenario string
		contents []byte
	}{
		{"not a zip at all", []byte("not a zip")},
		{"empty file", nil},
		{"truncated header", []byte("PK\x03\x04")},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			zipPath := filepath.Join(dir, "broken.zip")
			require.NoError(t, os.WriteFile(zipPath, tt.contents, 0o644))

			outcome := archive.ZipInspector{}.Inspect(zipPath, targetEntry, dir)
			require.Equal(t, archive.StatusInvalid, outcome.Status)
			require.NotEmpty(t, outcome.Reason)
			require.NoFileExists(t, filepath.Join(dir, targetEntry))
		})
	}
}

func TestInspectMissingArchiveFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outcome := archive.ZipInspector{}.Inspect(filepath.Join(dir, "gone.zip"), targetEntry, dir)
	require.Equal(t, archive.StatusInvalid, outcome.Status)
	require.NotEmpty(t, outcome.Reason)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "extracted", archive.StatusExtracted.String())
	require.Equal(t, "not_found", archive.StatusNotFound.String())
	require.Equal(t, "invalid_archive", archive.StatusInvalid.String())
}
