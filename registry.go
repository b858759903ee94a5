package nexuslog

// loggerKey identifies a cached handle
type loggerKey struct {
	name     string
	level    int64
	explicit bool
}

// GetLogger returns the handle for name, creating it on first use.
// An explicit level overrides the configured name and global levels.
// Calls with the same name and level return the same handle.
func (e *Engine) GetLogger(name string, level ...int64) *Logger {
	key := loggerKey{name: name}
	if len(level) > 0 {
		key.level = level[0]
		key.explicit = true
	}

	if v, ok := e.registry.Load(key); ok {
		return v.(*Logger)
	}

	l := &Logger{
		engine:    e,
		name:      key.name,
		level:     key.level,
		explicit:  key.explicit,
		threshold: e.filter.effective(key.name, key.level, key.explicit),
	}
	actual, _ := e.registry.LoadOrStore(key, l)
	return actual.(*Logger)
}
