package nexuslog

import (
	"fmt"
	"strconv"
	"strings"
)

// Override applies string key-value overrides to the configuration.
// Each override should be in the format "key=value". Nothing is changed
// unless every override applies and the result validates.
//
// Example:
//
//	cfg := nexuslog.DefaultConfig()
//	err := cfg.Override(
//	    "filename=/var/log/app/app.log",
//	    "level=debug",
//	    "name_levels=db=warn,special=debug",
//	)
func (c *Config) Override(overrides ...string) error {
	cfg := c.Clone()

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
		return combineConfigErrors(errors)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	*c = *cfg
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("nexuslog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "nexuslog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	case "filename":
		cfg.Filename = value

	case "level":
		levelVal, err := parseLevelValue(value)
		if err != nil {
			return fmtErrorf("invalid level value '%s': %w", value, err)
		}
		cfg.Level = levelVal
	case "name_levels":
		levels, err := parseNameLevels(value)
		if err != nil {
			return err
		}
		cfg.NameLevels = levels

	case "unix_ts":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for unix_ts '%s': %w", value, err)
		}
		cfg.UnixTS = boolVal
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "utc":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for utc '%s': %w", value, err)
		}
		cfg.UTC = boolVal

	case "batch_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for batch_size '%s': %w", value, err)
		}
		cfg.BatchSize = intVal
	case "queue_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for queue_size '%s': %w", value, err)
		}
		cfg.QueueSize = intVal
	case "flush_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for flush_interval_ms '%s': %w", value, err)
		}
		cfg.FlushIntervalMs = intVal

	case "sync_on_flush":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for sync_on_flush '%s': %w", value, err)
		}
		cfg.SyncOnFlush = boolVal
	case "max_write_retries":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_write_retries '%s': %w", value, err)
		}
		cfg.MaxWriteRetries = intVal
	case "retry_backoff_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for retry_backoff_ms '%s': %w", value, err)
		}
		cfg.RetryBackoffMs = intVal

	case "heartbeat_interval_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for heartbeat_interval_s '%s': %w", value, err)
		}
		cfg.HeartbeatIntervalS = intVal

	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
