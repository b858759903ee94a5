package nexuslog

// levelFilter resolves the minimum level for a logger name.
// It is built once from an immutable Config and never changes.
type levelFilter struct {
	global int64
	names  map[string]int64
}

func newLevelFilter(cfg *Config) *levelFilter {
	f := &levelFilter{
		global: cfg.Level,
		names:  make(map[string]int64, len(cfg.NameLevels)),
	}
	for name, level := range cfg.NameLevels {
		f.names[name] = level
	}
	return f
}

// effective returns the threshold: explicit level, then the name level, then the global level
func (f *levelFilter) effective(name string, explicit int64, hasExplicit bool) int64 {
	if hasExplicit {
		return explicit
	}
	if level, ok := f.names[name]; ok {
		return level
	}
	return f.global
}

// allows reports whether a record at level passes threshold
func allows(level, threshold int64) bool {
	return level >= threshold
}
