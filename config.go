package nexuslog

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/lixenwraith/config"

	"github.com/walras-group/nexuslog/formatter"
)

// Config holds all engine configuration values
type Config struct {
	// Output
	Filename string `toml:"filename"` // Exact path in unix_ts mode, name prefix for dated files otherwise

	// Filtering
	Level      int64            `toml:"level"`
	NameLevels map[string]int64 `toml:"name_levels"` // Per logger name minimum level

	// Formatting
	UnixTS          bool   `toml:"unix_ts"`          // Epoch timestamps and a single never-rotated file
	TimestampFormat string `toml:"timestamp_format"` // Layout for calendar timestamps
	UTC             bool   `toml:"utc"`              // Calendar timestamps and day boundaries in UTC

	// Batching
	BatchSize       int64 `toml:"batch_size"`        // Records that wake the writer
	QueueSize       int64 `toml:"queue_size"`        // Max buffered records, 0 = unbounded
	FlushIntervalMs int64 `toml:"flush_interval_ms"` // Idle flush bound

	// Durability
	SyncOnFlush     bool  `toml:"sync_on_flush"`     // fsync after every written batch
	MaxWriteRetries int64 `toml:"max_write_retries"` // Retries before a failed batch is discarded
	RetryBackoffMs  int64 `toml:"retry_backoff_ms"`  // First retry delay, doubled per attempt

	// Heartbeat configuration
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // 0 = disabled

	// Internal error handling
	InternalErrorsToStderr bool        `toml:"internal_errors_to_stderr"`
	ErrorHandler           func(error) `toml:"-"` // Receives every sink error, called from the writer goroutine
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Filename: "nexuslog.log",

	Level: LevelInfo,

	UnixTS:          true,
	TimestampFormat: formatter.DefaultTimestampFormat,
	UTC:             false,

	BatchSize:       1024,
	QueueSize:       0,
	FlushIntervalMs: 100,

	SyncOnFlush:     false,
	MaxWriteRetries: 5,
	RetryBackoffMs:  10,

	HeartbeatIntervalS: 0,

	InternalErrorsToStderr: false,
}

// fileConfig is the flat shape registered with the TOML loader.
// Levels are written by name and name_levels as "name=level,name=level".
type fileConfig struct {
	Filename               string `toml:"filename"`
	Level                  string `toml:"level"`
	NameLevels             string `toml:"name_levels"`
	UnixTS                 bool   `toml:"unix_ts"`
	TimestampFormat        string `toml:"timestamp_format"`
	UTC                    bool   `toml:"utc"`
	BatchSize              int64  `toml:"batch_size"`
	QueueSize              int64  `toml:"queue_size"`
	FlushIntervalMs        int64  `toml:"flush_interval_ms"`
	SyncOnFlush            bool   `toml:"sync_on_flush"`
	MaxWriteRetries        int64  `toml:"max_write_retries"`
	RetryBackoffMs         int64  `toml:"retry_backoff_ms"`
	HeartbeatIntervalS     int64  `toml:"heartbeat_interval_s"`
	InternalErrorsToStderr bool   `toml:"internal_errors_to_stderr"`
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	return defaultConfig.Clone()
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct(configPrefix, cfg.toFileConfig()); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, configPrefix, cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml name
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// toFileConfig renders the registration defaults for the TOML loader
func (c *Config) toFileConfig() fileConfig {
	return fileConfig{
		Filename:               c.Filename,
		Level:                  strconv.FormatInt(c.Level, 10),
		NameLevels:             formatNameLevels(c.NameLevels),
		UnixTS:                 c.UnixTS,
		TimestampFormat:        c.TimestampFormat,
		UTC:                    c.UTC,
		BatchSize:              c.BatchSize,
		QueueSize:              c.QueueSize,
		FlushIntervalMs:        c.FlushIntervalMs,
		SyncOnFlush:            c.SyncOnFlush,
		MaxWriteRetries:        c.MaxWriteRetries,
		RetryBackoffMs:         c.RetryBackoffMs,
		HeartbeatIntervalS:     c.HeartbeatIntervalS,
		InternalErrorsToStderr: c.InternalErrorsToStderr,
	}
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" || tomlTag == "-" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		tomlTag := t.Field(i).Tag.Get("toml")
		if tomlTag != "" && tomlTag != "-" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case uint64:
			if v > math.MaxInt64 {
				return fmt.Errorf("value %d overflows int64", v)
			}
			field.SetInt(int64(v))
		case float64:
			if v != math.Trunc(v) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		case string:
			// Named levels are accepted wherever an integer is
			intVal, err := parseLevelValue(v)
			if err != nil {
				return err
			}
			field.SetInt(intVal)
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			field.SetBool(v)
		case string:
			boolVal, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected bool, got '%s'", v)
			}
			field.SetBool(boolVal)
		default:
			return fmt.Errorf("expected bool, got %T", value)
		}

	case reflect.Map:
		levels, err := toNameLevels(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(levels))

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// toNameLevels converts the accepted name_levels shapes into a map
func toNameLevels(value any) (map[string]int64, error) {
	switch v := value.(type) {
	case string:
		return parseNameLevels(v)
	case map[string]int64:
		levels := make(map[string]int64, len(v))
		for name, level := range v {
			levels[name] = level
		}
		return levels, nil
	case map[string]any:
		levels := make(map[string]int64, len(v))
		for name, raw := range v {
			var level int64
			lv := reflect.ValueOf(&level).Elem()
			if err := setFieldValue(lv, raw); err != nil {
				return nil, fmt.Errorf("name_levels[%s]: %w", name, err)
			}
			levels[name] = level
		}
		return levels, nil
	default:
		return nil, fmt.Errorf("expected name level map or string, got %T", value)
	}
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Filename) == "" {
		return fmtErrorf("filename cannot be empty")
	}

	if !c.UnixTS && strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	for name := range c.NameLevels {
		if strings.TrimSpace(name) == "" {
			return fmtErrorf("name_levels cannot contain an empty name")
		}
	}

	if c.BatchSize <= 0 {
		return fmtErrorf("batch_size must be positive: %d", c.BatchSize)
	}

	if c.QueueSize < 0 {
		return fmtErrorf("queue_size cannot be negative: %d", c.QueueSize)
	}

	if c.FlushIntervalMs <= 0 {
		return fmtErrorf("flush_interval_ms must be positive: %d", c.FlushIntervalMs)
	}

	if c.MaxWriteRetries < 0 {
		return fmtErrorf("max_write_retries cannot be negative: %d", c.MaxWriteRetries)
	}

	if c.RetryBackoffMs < 0 {
		return fmtErrorf("retry_backoff_ms cannot be negative: %d", c.RetryBackoffMs)
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	if c.NameLevels != nil {
		copiedConfig.NameLevels = make(map[string]int64, len(c.NameLevels))
		for name, level := range c.NameLevels {
			copiedConfig.NameLevels[name] = level
		}
	}
	return &copiedConfig
}
