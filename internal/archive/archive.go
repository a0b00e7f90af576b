// Package archive inspects candidate zip archives for a single well-known
// entry and extracts it next to the archive.
//
// Corrupt, truncated or otherwise unreadable archives are an expected,
// common condition during a scan, so every fault is folded into an Invalid
// outcome instead of an error return. The caller decides how to report it
// and carries on with the next archive.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Status tags the outcome of one archive inspection.
type Status int

const (
	// StatusExtracted means the target entry was found and written out.
	StatusExtracted Status = iota
	// StatusNotFound means the archive is valid but holds no matching entry.
	StatusNotFound
	// StatusInvalid means the archive could not be read; Reason says why.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusExtracted:
		return "extracted"
	case StatusNotFound:
		return "not_found"
	case StatusInvalid:
		return "invalid_archive"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the tri-state result of inspecting one archive. Reason is only
// set for StatusInvalid.
type Outcome struct {
	Status Status
	Reason string
}

func invalidf(format string, args ...any) Outcome {
	return Outcome{Status: StatusInvalid, Reason: fmt.Sprintf(format, args...)}
}

// Inspector looks inside one archive for an entry named entryName and, if
// present, writes its bytes to outputDir/entryName. Implementations never
// fail in the fatal sense: every fault is reported through the Outcome.
type Inspector interface {
	Inspect(archivePath, entryName, outputDir string) Outcome
}

// ZipInspector implements Inspector on top of archive/zip.
type ZipInspector struct{}

// Inspect scans the zip index in its own order and extracts the first
// non-directory entry whose base file name equals entryName. The stored path
// inside the archive may carry nested directory components; only the trailing
// component has to match. An existing output file of the same name is
// overwritten.
func (ZipInspector) Inspect(archivePath, entryName, outputDir string) Outcome {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return invalidf("open archive: %v", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		// Zip entry names use forward slashes regardless of platform.
		if path.Base(f.Name) != entryName {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return invalidf("open entry %s: %v", f.Name, err)
		}

		outputPath := filepath.Join(outputDir, entryName)
		out, err := os.Create(outputPath)
		if err != nil {
			rc.Close()
			return invalidf("create %s: %v", outputPath, err)
		}

		_, copyErr := io.Copy(out, rc)
		closeErr := out.Close()
		rc.Close()

		if copyErr != nil || closeErr != nil {
			// Don't leave a truncated output file behind.
			os.Remove(outputPath)
			if copyErr != nil {
				return invalidf("extract entry %s: %v", f.Name, copyErr)
			}
			return invalidf("close %s: %v", outputPath, closeErr)
		}

		return Outcome{Status: StatusExtracted}
	}

	return Outcome{Status: StatusNotFound}
}
