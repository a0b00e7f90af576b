// Package report writes a per-archive scan report as a Parquet file, one row
// per inspected archive.
package report

import (
	"fmt"
	"sync"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/craftgear/extract-model-info-json/internal/archive"
)

var columns = []string{
	"name=directory, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY",
	"name=archive, type=BYTE_ARRAY, convertedtype=UTF8",
	"name=outcome, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY",
	"name=detail, type=BYTE_ARRAY, convertedtype=UTF8",
	"name=scanned_at, type=BYTE_ARRAY, convertedtype=UTF8",
}

// Writer implements the orchestrator's Recorder port, buffering one row per
// archive outcome. Rows reach the file when Close is called. Safe for use
// from concurrent lanes.
type Writer struct {
	mu sync.Mutex
	fw source.ParquetFile
	pw *writer.CSVWriter
	// first write error, surfaced at Close
	err error
}

// NewWriter creates the report file at path, truncating any previous report.
func NewWriter(path string) (*Writer, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, fmt.Errorf("create report %s: %w", path, err)
	}
	pw, err := writer.NewCSVWriter(columns, fw, 2)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("init report writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	return &Writer{fw: fw, pw: pw}, nil
}

func (w *Writer) RecordArchive(dir, archivePath string, outcome archive.Outcome) {
	row := []string{
		dir,
		archivePath,
		outcome.Status.String(),
		outcome.Reason,
		time.Now().UTC().Format(time.RFC3339Nano),
	}
	ptrs := make([]*string, len(row))
	for i := range row {
		ptrs[i] = &row[i]
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	if err := w.pw.WriteString(ptrs); err != nil {
		w.err = fmt.Errorf("write report row for %s: %w", archivePath, err)
	}
}

// Close flushes buffered rows and finalizes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.pw.WriteStop(); err != nil && w.err == nil {
		w.err = fmt.Errorf("finalize report: %w", err)
	}
	if err := w.fw.Close(); err != nil && w.err == nil {
		w.err = fmt.Errorf("close report file: %w", err)
	}
	return w.err
}
