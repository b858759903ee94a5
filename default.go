package nexuslog

import (
	"sync"
	"sync/atomic"
	"time"
)

// Process-wide engine installed by BasicConfig
var (
	defaultMu     sync.Mutex
	defaultEngine atomic.Pointer[Engine]
)

// BasicConfig creates and installs the process-wide engine. A nil cfg uses
// the defaults. Returns ErrAlreadyConfigured while a previously installed
// engine has not been shut down.
func BasicConfig(cfg *Config) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if cur := defaultEngine.Load(); cur != nil && cur.Phase() != PhaseStopped {
		return ErrAlreadyConfigured
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}
	e, err := NewEngine(cfg)
	if err != nil {
		return err
	}
	defaultEngine.Store(e)
	return nil
}

// Default returns the process-wide engine, nil before BasicConfig
func Default() *Engine {
	return defaultEngine.Load()
}

// GetLogger returns a handle from the process-wide engine.
// Before BasicConfig the handle is detached and discards everything.
func GetLogger(name string, level ...int64) *Logger {
	e := defaultEngine.Load()
	if e == nil {
		return newDetachedLogger(name, level...)
	}
	return e.GetLogger(name, level...)
}

// Shutdown drains and closes the process-wide engine
func Shutdown() error {
	e := defaultEngine.Load()
	if e == nil {
		return nil
	}
	return e.Shutdown()
}

// Flush writes pending records of the process-wide engine and waits for completion or timeout
func Flush(timeout time.Duration) error {
	e := defaultEngine.Load()
	if e == nil {
		return ErrNotRunning
	}
	return e.Flush(timeout)
}

// Debug logs a message at debug level through the root logger
func Debug(msg string, args ...any) {
	GetLogger("").LogDepth(1, LevelDebug, msg, args...)
}

// Info logs a message at info level through the root logger
func Info(msg string, args ...any) {
	GetLogger("").LogDepth(1, LevelInfo, msg, args...)
}

// Warn logs a message at warning level through the root logger
func Warn(msg string, args ...any) {
	GetLogger("").LogDepth(1, LevelWarn, msg, args...)
}

// Error logs a message at error level through the root logger
func Error(msg string, args ...any) {
	GetLogger("").LogDepth(1, LevelError, msg, args...)
}
