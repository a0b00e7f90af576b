// Package stats holds the counters accumulated over one extraction run.
//
// A single Counters value is shared by every directory worker; each field is
// an independent atomic so increments from unrelated workers never lose
// updates. Readers only ever see Snapshot copies.
package stats

import "sync/atomic"

// Counters is the live, mutable set of run counters. The zero value is ready
// to use. All fields only ever increase.
type Counters struct {
	dirsScanned     atomic.Uint64
	weightDirs      atomic.Uint64
	archivesChecked atomic.Uint64
	extracted       atomic.Uint64
}

// Snapshot is a point-in-time copy of the counters. Fields are independent:
// a snapshot taken while workers are running may be torn across fields, but
// each field is individually correct and monotonic.
type Snapshot struct {
	DirsScanned     uint64
	WeightDirs      uint64
	ArchivesChecked uint64
	Extracted       uint64
}

func (c *Counters) IncDirsScanned() {
	c.dirsScanned.Add(1)
}

func (c *Counters) IncWeightDirs() {
	c.weightDirs.Add(1)
}

func (c *Counters) IncArchivesChecked() {
	c.archivesChecked.Add(1)
}

func (c *Counters) IncExtracted() {
	c.extracted.Add(1)
}

// Snapshot returns a copy of the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		DirsScanned:     c.dirsScanned.Load(),
		WeightDirs:      c.weightDirs.Load(),
		ArchivesChecked: c.archivesChecked.Load(),
		Extracted:       c.extracted.Load(),
	}
}
