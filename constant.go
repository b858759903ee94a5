package nexuslog

import (
	"time"
)

// Log level constants
const (
	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
)

// LevelWarning is an alias of LevelWarn
const LevelWarning = LevelWarn

// Heartbeat log level
const LevelProc int64 = 12

// Config file
const (
	// Key prefix used when loading TOML files
	configPrefix = "nexuslog."
)

// Formatting
const (
	// Initial capacity of pooled line buffers
	lineBufferSize = 256
	// Pooled buffers that grew beyond this are released to the GC
	maxPooledBufferSize = 64 * 1024
	// Number of stack frames between a handle method and the caller lookup
	callerSkip = 3
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Ceiling for the write retry backoff
	maxRetryBackoff = 2 * time.Second
)
