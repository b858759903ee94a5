package nexuslog

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "nexuslog: ") {
		format = "nexuslog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	return multierr.Append(err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// Level converts level string to numeric constant.
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "proc":
		return LevelProc, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warn, warning, error, proc)", levelStr)
	}
}

// parseLevelValue accepts both numeric and named levels
func parseLevelValue(value string) (int64, error) {
	if numVal, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
		return numVal, nil
	}
	return Level(value)
}

// parseNameLevels parses "name=level,name=level" into a map.
// An empty string yields an empty map.
func parseNameLevels(s string) (map[string]int64, error) {
	levels := make(map[string]int64)
	for _, item := range strings.Split(s, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		name, value, err := parseKeyValue(item)
		if err != nil {
			return nil, fmtErrorf("invalid name_levels entry '%s': expected name=level", item)
		}
		level, err := parseLevelValue(value)
		if err != nil {
			return nil, fmtErrorf("invalid level for name '%s': %w", name, err)
		}
		levels[name] = level
	}
	return levels, nil
}

// formatNameLevels renders a name level map in the form parseNameLevels reads
func formatNameLevels(levels map[string]int64) string {
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatInt(levels[name], 10))
	}
	return sb.String()
}

// internalLog writes engine diagnostics to stderr, if enabled.
func (e *Engine) internalLog(format string, args ...any) {
	if !e.cfg.InternalErrorsToStderr {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if !strings.HasPrefix(msg, "nexuslog: ") {
		msg = "nexuslog: " + msg
	}
	fmt.Fprint(os.Stderr, msg)
}
