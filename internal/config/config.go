package config

import "runtime"

var (
	// Default number of workers, one lane per directory up to this many at once.
	DefaultNumWorkers = runtime.NumCPU()
)

// Config holds application settings
type Config struct {
	Root       string
	NumWorkers int
	DBPath     string
}
