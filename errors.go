package nexuslog

import "errors"

var (
	// ErrAlreadyConfigured is returned by BasicConfig while the installed engine is still live
	ErrAlreadyConfigured = errors.New("nexuslog: already configured")
	// ErrShutdown is returned by operations on an engine that has been shut down
	ErrShutdown = errors.New("nexuslog: engine shut down")
	// ErrSinkFailed reports records discarded after the write retries were exhausted
	ErrSinkFailed = errors.New("nexuslog: sink failed")
	// ErrNotRunning is returned when no running engine can serve the request
	ErrNotRunning = errors.New("nexuslog: engine not running")
)
