package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/craftgear/extract-model-info-json/internal/stats"
)

// Line writes single-line progress to a writer, rewriting the counter line
// in place with a carriage return. Suitable for non-TTY output or when the
// spinner UI is unwanted.
type Line struct {
	mu       sync.Mutex
	w        io.Writer
	lastSnap stats.Snapshot
	started  bool
}

// NewLine returns a Line reporter writing to w.
func NewLine(w io.Writer) *Line {
	return &Line{w: w}
}

func (l *Line) Start(root string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return
	}
	fmt.Fprintf(l.w, "scanning: %s\n", root)
	l.started = true
}

func (l *Line) Update(snap stats.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.update(snap)
}

// update rewrites the counter line unless nothing changed. Caller holds mu.
func (l *Line) update(snap stats.Snapshot) {
	if snap == l.lastSnap {
		return
	}
	fmt.Fprintf(l.w, "\r%s", formatSnapshot(snap))
	l.lastSnap = snap
}

func (l *Line) InvalidArchive(archivePath, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "\ninvalid zip: %s (%s)\n", archivePath, reason)
}

func (l *Line) Finish(snap stats.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.update(snap)
	fmt.Fprintln(l.w)
}
