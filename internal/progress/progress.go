// Package progress renders live feedback for an extraction run.
//
// Reporters are pure observers: they never touch the counters and never
// block the lane that calls them for long. Every method may be invoked from
// concurrent directory lanes, so each implementation owns whatever
// serialization its output needs.
package progress

import (
	"fmt"

	"github.com/craftgear/extract-model-info-json/internal/stats"
)

// Reporter receives run lifecycle notifications.
type Reporter interface {
	// Start is called once before directory enumeration begins.
	Start(root string)
	// Update is called after every per-directory step with a fresh snapshot.
	Update(snap stats.Snapshot)
	// InvalidArchive is called when an archive could not be read.
	InvalidArchive(archivePath, reason string)
	// Finish is called once, after every lane has completed.
	Finish(snap stats.Snapshot)
}

// Nop is a Reporter that discards everything. Useful for tests and
// --progress=none.
type Nop struct{}

func (Nop) Start(string)                  {}
func (Nop) Update(stats.Snapshot)         {}
func (Nop) InvalidArchive(string, string) {}
func (Nop) Finish(stats.Snapshot)         {}

func formatSnapshot(snap stats.Snapshot) string {
	return fmt.Sprintf("dirs: %d weights: %d zip: %d extracted: %d",
		snap.DirsScanned, snap.WeightDirs, snap.ArchivesChecked, snap.Extracted)
}
