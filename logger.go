package nexuslog

import (
	"time"
)

// Logger is a named handle onto an Engine. Its threshold is resolved once
// at creation; a rejected call costs one integer compare.
type Logger struct {
	engine    *Engine
	name      string
	level     int64
	explicit  bool
	threshold int64
}

// newDetachedLogger returns a handle that discards everything
func newDetachedLogger(name string, level ...int64) *Logger {
	l := &Logger{name: name, threshold: LevelInfo}
	if len(level) > 0 {
		l.level, l.explicit, l.threshold = level[0], true, level[0]
	}
	return l
}

// Debug logs a message at debug level
func (l *Logger) Debug(msg string, args ...any) {
	l.log(0, LevelDebug, msg, args)
}

// Info logs a message at info level
func (l *Logger) Info(msg string, args ...any) {
	l.log(0, LevelInfo, msg, args)
}

// Warning logs a message at warning level
func (l *Logger) Warning(msg string, args ...any) {
	l.log(0, LevelWarn, msg, args)
}

// Warn logs a message at warning level
func (l *Logger) Warn(msg string, args ...any) {
	l.log(0, LevelWarn, msg, args)
}

// Error logs a message at error level
func (l *Logger) Error(msg string, args ...any) {
	l.log(0, LevelError, msg, args)
}

// Log logs a message at an arbitrary level
func (l *Logger) Log(level int64, msg string, args ...any) {
	l.log(0, level, msg, args)
}

// LogDepth logs with the source location taken depth frames above the caller.
// Wrappers use it to report their own caller.
func (l *Logger) LogDepth(depth int, level int64, msg string, args ...any) {
	l.log(depth, level, msg, args)
}

// Enabled reports whether a record at level would be accepted
func (l *Logger) Enabled(level int64) bool {
	return l.engine != nil && allows(level, l.threshold)
}

// EffectiveLevel returns the resolved minimum level
func (l *Logger) EffectiveLevel() int64 {
	return l.threshold
}

// Name returns the logger name, empty for the root logger
func (l *Logger) Name() string {
	return l.name
}

// Flush writes all pending records of the engine and syncs the file
func (l *Logger) Flush(timeout time.Duration) error {
	if l.engine == nil {
		return ErrNotRunning
	}
	return l.engine.Flush(timeout)
}

// Shutdown shuts down the whole engine this logger belongs to
func (l *Logger) Shutdown() error {
	if l.engine == nil {
		return nil
	}
	return l.engine.Shutdown()
}

// log filters and hands accepted calls to the engine.
// The call depth from here to user code must stay fixed, see callerSkip.
func (l *Logger) log(depth int, level int64, msg string, args []any) {
	if l.engine == nil || !allows(level, l.threshold) {
		return
	}
	l.engine.emit(depth, level, msg, args)
}
