package nexuslog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"proc", LevelProc, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := Level(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue(" level = debug ")
	require.NoError(t, err)
	assert.Equal(t, "level", key)
	assert.Equal(t, "debug", value)

	key, value, err = parseKeyValue("name_levels=a=debug")
	require.NoError(t, err)
	assert.Equal(t, "name_levels", key)
	assert.Equal(t, "a=debug", value)

	_, _, err = parseKeyValue("novalue")
	assert.Error(t, err)
	_, _, err = parseKeyValue("=value")
	assert.Error(t, err)
}

func TestParseNameLevels(t *testing.T) {
	levels, err := parseNameLevels("special=debug, db=warn,,cache=8")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"special": LevelDebug, "db": LevelWarn, "cache": LevelError}, levels)

	levels, err = parseNameLevels("")
	require.NoError(t, err)
	assert.Empty(t, levels)

	_, err = parseNameLevels("special")
	assert.Error(t, err)
	_, err = parseNameLevels("special=loud")
	assert.Error(t, err)
}

func TestFormatNameLevels(t *testing.T) {
	s := formatNameLevels(map[string]int64{"db": LevelWarn, "api": LevelDebug})
	assert.Equal(t, "api=-4,db=4", s)

	parsed, err := parseNameLevels(s)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"db": LevelWarn, "api": LevelDebug}, parsed)
}

func TestFmtErrorf(t *testing.T) {
	assert.Equal(t, "nexuslog: bad 1", fmtErrorf("bad %d", 1).Error())
	assert.Equal(t, "nexuslog: once", fmtErrorf("nexuslog: once").Error())

	inner := errors.New("inner")
	assert.ErrorIs(t, fmtErrorf("wrapped: %w", inner), inner)
}

func TestCombineErrors(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, a, combineErrors(a, nil))
	assert.Equal(t, b, combineErrors(nil, b))

	both := combineErrors(a, b)
	assert.ErrorIs(t, both, a)
	assert.ErrorIs(t, both, b)
}
