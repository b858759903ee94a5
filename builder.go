package nexuslog

// Builder provides a fluent API for building engine configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates and starts a new Engine with the specified configuration.
func (b *Builder) Build() (*Engine, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewEngine(b.cfg)
}

// Config returns a validated copy of the configuration being built.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return b.cfg.Clone(), nil
}

// Filename sets the output path, or the dated file prefix when unix timestamps are off.
func (b *Builder) Filename(filename string) *Builder {
	b.cfg.Filename = filename
	return b
}

// Level sets the global log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the global log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// NameLevel sets the minimum level for loggers with the given name.
func (b *Builder) NameLevel(name string, level int64) *Builder {
	if b.cfg.NameLevels == nil {
		b.cfg.NameLevels = make(map[string]int64)
	}
	b.cfg.NameLevels[name] = level
	return b
}

// NameLevels replaces all per name levels.
func (b *Builder) NameLevels(levels map[string]int64) *Builder {
	b.cfg.NameLevels = make(map[string]int64, len(levels))
	for name, level := range levels {
		b.cfg.NameLevels[name] = level
	}
	return b
}

// UnixTS selects epoch timestamps with a single fixed file.
func (b *Builder) UnixTS(enable bool) *Builder {
	b.cfg.UnixTS = enable
	return b
}

// TimestampFormat sets the calendar timestamp layout.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// UTC renders calendar timestamps and day boundaries in UTC.
func (b *Builder) UTC(enable bool) *Builder {
	b.cfg.UTC = enable
	return b
}

// BatchSize sets the number of records that wake the writer.
func (b *Builder) BatchSize(size int64) *Builder {
	b.cfg.BatchSize = size
	return b
}

// QueueSize bounds the buffered records, 0 leaves the queue unbounded.
func (b *Builder) QueueSize(size int64) *Builder {
	b.cfg.QueueSize = size
	return b
}

// FlushIntervalMs sets the idle flush bound.
func (b *Builder) FlushIntervalMs(ms int64) *Builder {
	b.cfg.FlushIntervalMs = ms
	return b
}

// SyncOnFlush enables fsync after every written batch.
func (b *Builder) SyncOnFlush(enable bool) *Builder {
	b.cfg.SyncOnFlush = enable
	return b
}

// MaxWriteRetries sets how often a failed write is retried before its records are discarded.
func (b *Builder) MaxWriteRetries(retries int64) *Builder {
	b.cfg.MaxWriteRetries = retries
	return b
}

// RetryBackoffMs sets the first retry delay.
func (b *Builder) RetryBackoffMs(ms int64) *Builder {
	b.cfg.RetryBackoffMs = ms
	return b
}

// HeartbeatIntervalS sets the heartbeat interval, 0 disables heartbeats.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// InternalErrorsToStderr mirrors engine diagnostics to stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// ErrorHandler sets the callback receiving sink errors.
func (b *Builder) ErrorHandler(handler func(error)) *Builder {
	b.cfg.ErrorHandler = handler
	return b
}

// Override applies "key=value" overrides on top of the values set so far.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	// Validation is deferred to Build
	cfg := b.cfg.Clone()
	var errors []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}
		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}
	if len(errors) > 0 {
		b.err = combineConfigErrors(errors)
		return b
	}
	b.cfg = cfg
	return b
}

// Example usage:
// engine, err := nexuslog.NewBuilder().
//
//	Filename("/var/log/app/app.log").
//	LevelString("debug").
//	NameLevel("db", nexuslog.LevelWarn).
//	BatchSize(4096).
//	Build()
//
// if err == nil {
//
//	 defer engine.Shutdown()
//	 engine.GetLogger("app").Info("engine started")
//
// }
