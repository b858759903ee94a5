package formatter

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walras-group/nexuslog/sanitizer"
)

type named string

func (n named) String() string { return "named:" + string(n) }

func TestFormatter(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 123456789, time.UTC)

	t.Run("formatted header", func(t *testing.T) {
		f := New().UTC(true)
		rec := &Record{Time: timestamp, Level: 0, File: "/src/app/main.go", Line: 42, Message: "hello"}

		line, err := f.Format(nil, rec)
		require.NoError(t, err)
		assert.Equal(t, "[2024-01-01T12:00:00.123456 main.go 42 INFO] hello\n", string(line))
	})

	t.Run("unix epoch header", func(t *testing.T) {
		f := New().Mode(UnixEpoch)
		rec := &Record{Time: timestamp, Level: 4, File: "worker.go", Line: 7, Message: "careful"}

		line, err := f.Format(nil, rec)
		require.NoError(t, err)
		assert.Equal(t, "[1704110400.123456 worker.go 7 WARNING] careful\n", string(line))
	})

	t.Run("unix epoch pads microseconds", func(t *testing.T) {
		f := New().Mode(UnixEpoch)
		ts := time.Unix(1700000000, 5000)
		assert.Equal(t, "1700000000.000005", string(f.AppendTimestamp(nil, ts)))
	})

	t.Run("custom layout", func(t *testing.T) {
		f := New().UTC(true).TimestampFormat(time.RFC3339)
		assert.Equal(t, "2024-01-01T12:00:00Z", string(f.AppendTimestamp(nil, timestamp)))
	})

	t.Run("missing source", func(t *testing.T) {
		f := New().Mode(UnixEpoch)
		header := f.AppendHeader(nil, timestamp, "", 0, 8)
		assert.True(t, strings.HasSuffix(string(header), " ? 0 ERROR] "))
	})

	t.Run("appends to existing buffer", func(t *testing.T) {
		f := New().Mode(UnixEpoch)
		buf := []byte("keep:")
		line, err := f.Format(buf, &Record{Time: timestamp, Level: -4, File: "a.go", Line: 1, Message: "x"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(line), "keep:[1704110400.123456 a.go 1 DEBUG] x"))
	})

	t.Run("message is one line", func(t *testing.T) {
		f := New().Mode(UnixEpoch)
		line, err := f.Format(nil, &Record{Time: timestamp, File: "a.go", Line: 1, Message: "multi\nline"})
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(line), "\n"))
		assert.Contains(t, string(line), `multi\nline`)
	})
}

func TestLevelNames(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelToString(-4))
	assert.Equal(t, "INFO", LevelToString(0))
	assert.Equal(t, "WARNING", LevelToString(4))
	assert.Equal(t, "ERROR", LevelToString(8))
	assert.Equal(t, "PROC", LevelToString(12))
	assert.Equal(t, "LEVEL(3)", LevelToString(3))
	assert.Equal(t, "LEVEL(-9)", string(AppendLevel(nil, -9)))
}

func TestDayKey(t *testing.T) {
	f := New().UTC(true)
	assert.Equal(t, int32(20240101), f.DayKey(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, int32(20240102), f.DayKey(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, f.Location())
}

func TestAppendMessage(t *testing.T) {
	f := New().UTC(true)

	tests := []struct {
		name     string
		template string
		args     []any
		expected string
	}{
		{"no args is literal", "100% done %d", nil, "100% done %d"},
		{"string", "user %s logged in", []any{"alice"}, "user alice logged in"},
		{"integer", "Benchmark message number %d", []any{42}, "Benchmark message number 42"},
		{"python int verb", "count=%i", []any{int64(-7)}, "count=-7"},
		{"unsigned", "%d bytes", []any{uint32(512)}, "512 bytes"},
		{"float default precision", "%f", []any{1.5}, "1.500000"},
		{"float precision", "%.2f ms", []any{3.14159}, "3.14 ms"},
		{"integer as float", "%.1f", []any{3}, "3.0"},
		{"value verb float", "%v", []any{2.25}, "2.25"},
		{"hex integer", "0x%x", []any{255}, "0xff"},
		{"hex bytes", "%x", []any{[]byte{0xde, 0xad}}, "dead"},
		{"bool", "ok=%s", []any{true}, "ok=true"},
		{"nil", "%v", []any{nil}, "nil"},
		{"error", "failed: %s", []any{errors.New("boom")}, "failed: boom"},
		{"stringer", "%s", []any{named("x")}, "named:x"},
		{"duration", "took %s", []any{1500 * time.Millisecond}, "took 1.5s"},
		{"time", "at %s", []any{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, "at 2024-01-01T00:00:00Z"},
		{"literal percent", "%d%%", []any{50}, "50%"},
		{"multiple", "%s=%d (%.1f%%)", []any{"hits", 3, 75.0}, "hits=3 (75.0%)"},
		{"escapes arguments", "got %s", []any{"a\nb"}, `got a\nb`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.AppendMessage(nil, tt.template, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestAppendMessageErrors(t *testing.T) {
	f := New()

	tests := []struct {
		name     string
		template string
		args     []any
		target   error
		index    int
	}{
		{"too few", "%s and %s", []any{"a"}, ErrTooFewArgs, 1},
		{"too many", "%s", []any{"a", "b"}, ErrTooManyArgs, 1},
		{"unknown verb", "%q", []any{"a"}, ErrBadVerb, 0},
		{"trailing percent", "50%", []any{1}, ErrBadVerb, -1},
		{"bad precision", "%.f", []any{1.0}, ErrBadVerb, -1},
		{"string for int", "%d", []any{"seven"}, ErrArgType, 0},
		{"bool for float", "%f", []any{true}, ErrArgType, 0},
		{"unsupported kind", "%s", []any{struct{ A int }{1}}, ErrUnsupportedArg, 0},
		{"unsupported for int", "%d", []any{[]int{1}}, ErrUnsupportedArg, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.AppendMessage(nil, tt.template, tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var argErr *ArgError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tt.index, argErr.Index)
			assert.Contains(t, err.Error(), "formatter: ")
		})
	}
}

func TestFormatFallbackOnMismatch(t *testing.T) {
	f := New().Mode(UnixEpoch)
	rec := &Record{
		Time:    time.Unix(1700000000, 0),
		Level:   0,
		File:    "main.go",
		Line:    3,
		Message: "value %d of %d",
		Args:    []any{1},
	}

	line, err := f.Format(nil, rec)
	require.ErrorIs(t, err, ErrTooFewArgs)

	str := string(line)
	assert.True(t, strings.HasPrefix(str, "[1700000000.000000 main.go 3 INFO] value %d of %d !BADFMT("))
	assert.Contains(t, str, "args=[1]")
	assert.True(t, strings.HasSuffix(str, "\n"))
	assert.Equal(t, 1, strings.Count(str, "\n"))
}

func TestFormatWithPassthroughSanitizer(t *testing.T) {
	f := New(sanitizer.New(sanitizer.HexEncode)).Mode(UnixEpoch)
	out, err := f.AppendMessage(nil, "bell\x07", nil)
	require.NoError(t, err)
	assert.Equal(t, "bell<07>", string(out))
}

func BenchmarkFormat(b *testing.B) {
	benchmarks := []struct {
		name string
		mode TimestampMode
	}{
		{"Formatted", Formatted},
		{"UnixEpoch", UnixEpoch},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			f := New().Mode(bm.mode)
			rec := &Record{Time: time.Now(), Level: 0, File: "bench.go", Line: 10, Message: "Benchmark message number %d"}
			buf := make([]byte, 0, 256)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				rec.Args = []any{i}
				buf, _ = f.Format(buf[:0], rec)
			}
		})
	}
}

type nilSafeErr struct{ code int }

func (e *nilSafeErr) Error() string {
	if e == nil {
		return "no error"
	}
	return "code " + strconv.Itoa(e.code)
}

type fieldErr struct{ msg string }

func (e *fieldErr) Error() string { return e.msg }

type fieldStringer struct{ name string }

func (s *fieldStringer) String() string { return s.name }

type explodingStringer struct{}

func (explodingStringer) String() string { panic("boom") }

func TestAppendMessageMethodArgs(t *testing.T) {
	f := New()

	tests := []struct {
		name     string
		template string
		arg      any
		expected string
	}{
		{"nil error receiver", "err=%v", (*fieldErr)(nil), "err=<nil>"},
		{"nil stringer receiver", "name=%s", (*fieldStringer)(nil), "name=<nil>"},
		{"nil url", "url=%v", (*url.URL)(nil), "url=<nil>"},
		{"nil-safe method", "err=%v", (*nilSafeErr)(nil), "err=no error"},
		{"error value", "err=%v", &fieldErr{msg: "disk full"}, "err=disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out []byte
			var err error
			require.NotPanics(t, func() {
				out, err = f.AppendMessage(nil, tt.template, []any{tt.arg})
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestFormatPanickingMethodFallsBack(t *testing.T) {
	f := New().Mode(UnixEpoch)
	rec := &Record{
		Time:    time.Unix(1700000000, 0),
		File:    "main.go",
		Line:    9,
		Message: "state %s id=%d",
		Args:    []any{explodingStringer{}, 7},
	}

	var line []byte
	var err error
	require.NotPanics(t, func() {
		line, err = f.Format(nil, rec)
	})
	require.ErrorIs(t, err, ErrArgPanic)

	var argErr *ArgError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, 0, argErr.Index)

	str := string(line)
	assert.True(t, strings.HasPrefix(str, "[1700000000.000000 main.go 9 INFO] state %s id=%d !BADFMT("))
	assert.True(t, strings.HasSuffix(str, "\n"))
	assert.Equal(t, 1, strings.Count(str, "\n"))
}
