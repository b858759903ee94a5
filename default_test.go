package nexuslog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetDefault clears the process-wide engine between tests
func resetDefault(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		_ = Shutdown()
		defaultEngine.Store(nil)
	})
	if e := defaultEngine.Load(); e != nil {
		_ = e.Shutdown()
	}
	defaultEngine.Store(nil)
}

func TestDefaultBeforeConfig(t *testing.T) {
	resetDefault(t)

	assert.Nil(t, Default())
	l := GetLogger("early")
	assert.False(t, l.Enabled(LevelError))
	l.Error("discarded")

	assert.NoError(t, Shutdown())
	assert.ErrorIs(t, Flush(time.Second), ErrNotRunning)
}

func TestBasicConfigScenario(t *testing.T) {
	resetDefault(t)
	path := filepath.Join(t.TempDir(), "basic.log")

	cfg := DefaultConfig()
	cfg.Filename = path
	cfg.Level = LevelInfo
	cfg.NameLevels = map[string]int64{"special": LevelDebug}
	cfg.BatchSize = 1
	require.NoError(t, BasicConfig(cfg))

	GetLogger("special").Debug("special debug")
	GetLogger("other").Debug("other debug")
	GetLogger("special", LevelWarn).Info("explicit info")
	GetLogger("other").Info("other info")
	Info("root info")
	Debug("root debug")

	require.NoError(t, Flush(time.Second))
	require.NoError(t, Shutdown())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "special debug")
	assert.NotContains(t, string(content), "other debug")
	assert.NotContains(t, string(content), "explicit info")
	assert.Contains(t, string(content), "other info")
	assert.NotContains(t, string(content), "root debug")

	// Package-level helpers report their caller
	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], " default_test.go ")
	assert.Equal(t, "root info", messageOf(lines[2]))
}

func TestBasicConfigTwice(t *testing.T) {
	resetDefault(t)
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Filename = filepath.Join(dir, "first.log")
	require.NoError(t, BasicConfig(cfg))
	first := Default()

	cfg.Filename = filepath.Join(dir, "second.log")
	assert.ErrorIs(t, BasicConfig(cfg), ErrAlreadyConfigured)
	assert.Same(t, first, Default())

	// Re-initialisation is allowed once the engine is stopped
	require.NoError(t, Shutdown())
	require.NoError(t, BasicConfig(cfg))
	assert.NotSame(t, first, Default())

	GetLogger("again").Info("second engine")
	require.NoError(t, Shutdown())

	content, err := os.ReadFile(cfg.Filename)
	require.NoError(t, err)
	assert.Contains(t, string(content), "second engine")
}

func TestBasicConfigInvalid(t *testing.T) {
	resetDefault(t)

	cfg := DefaultConfig()
	cfg.BatchSize = 0
	assert.Error(t, BasicConfig(cfg))
	assert.Nil(t, Default())
}
