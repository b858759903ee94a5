// Package formatter renders log records into single text lines of the form
//
//	[<timestamp> <source_file> <source_line> <LEVEL>] <message>
//
// All rendering appends into caller-owned buffers; a Formatter holds only
// immutable settings and is safe for concurrent use once configured.
package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/walras-group/nexuslog/sanitizer"
)

// TimestampMode selects the line timestamp rendering
type TimestampMode int

const (
	Formatted TimestampMode = iota // Calendar timestamp using the configured layout
	UnixEpoch                      // Seconds since epoch with microsecond fraction
)

// DefaultTimestampFormat is used in Formatted mode when no layout is set
const DefaultTimestampFormat = "2006-01-02T15:04:05.000000"

// Record is a single log entry prior to rendering
type Record struct {
	Time    time.Time
	Level   int64
	File    string
	Line    int
	Message string
	Args    []any
}

// Formatter renders records into lines
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	mode            TimestampMode
	timestampFormat string
	location        *time.Location
	dumper          *spew.ConfigState
}

// New creates a formatter with the provided sanitizer, escaping by default
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New(sanitizer.Escape)
	}
	return &Formatter{
		sanitizer:       san,
		mode:            Formatted,
		timestampFormat: DefaultTimestampFormat,
		location:        time.Local,
		dumper: &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                4,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

// Mode sets the timestamp mode
func (f *Formatter) Mode(mode TimestampMode) *Formatter {
	f.mode = mode
	return f
}

// TimestampFormat sets the layout used in Formatted mode
func (f *Formatter) TimestampFormat(layout string) *Formatter {
	if layout != "" {
		f.timestampFormat = layout
	}
	return f
}

// UTC switches calendar rendering between UTC and local time
func (f *Formatter) UTC(utc bool) *Formatter {
	if utc {
		f.location = time.UTC
	} else {
		f.location = time.Local
	}
	return f
}

// Location returns the zone used for calendar rendering and day keys
func (f *Formatter) Location() *time.Location {
	return f.location
}

// Format appends the full line for rec, including the trailing newline.
// A template/argument mismatch still yields a usable best-effort line; the
// mismatch is returned so the caller can count it.
func (f *Formatter) Format(dst []byte, rec *Record) ([]byte, error) {
	dst = f.AppendHeader(dst, rec.Time, rec.File, rec.Line, rec.Level)
	mark := len(dst)

	out, err := f.AppendMessage(dst, rec.Message, rec.Args)
	if err != nil {
		out = f.appendFallback(out[:mark], rec.Message, rec.Args, err)
	}
	return append(out, '\n'), err
}

// AppendHeader appends "[<timestamp> <file> <line> <LEVEL>] "
func (f *Formatter) AppendHeader(dst []byte, t time.Time, file string, line int, level int64) []byte {
	dst = append(dst, '[')
	dst = f.AppendTimestamp(dst, t)
	dst = append(dst, ' ')
	if file == "" {
		dst = append(dst, '?')
	} else {
		dst = append(dst, baseName(file)...)
	}
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(line), 10)
	dst = append(dst, ' ')
	dst = AppendLevel(dst, level)
	return append(dst, ']', ' ')
}

// AppendTimestamp appends t in the configured mode
func (f *Formatter) AppendTimestamp(dst []byte, t time.Time) []byte {
	if f.mode == UnixEpoch {
		dst = strconv.AppendInt(dst, t.Unix(), 10)
		dst = append(dst, '.')
		micros := t.Nanosecond() / 1000
		for div := 100000; div > 0; div /= 10 {
			dst = append(dst, byte('0'+micros/div%10))
		}
		return dst
	}
	return t.In(f.location).AppendFormat(dst, f.timestampFormat)
}

// DayKey returns the calendar day of t as YYYYMMDD in the formatter's zone
func (f *Formatter) DayKey(t time.Time) int32 {
	y, m, d := t.In(f.location).Date()
	return int32(y*10000 + int(m)*100 + d)
}

// appendFallback renders the raw template plus a compact dump of the arguments
func (f *Formatter) appendFallback(dst []byte, template string, args []any, err error) []byte {
	dst = f.sanitizer.Append(dst, template)
	dst = append(dst, " !BADFMT("...)
	dst = f.sanitizer.Append(dst, err.Error())
	dst = append(dst, ") args="...)
	return f.sanitizer.Append(dst, f.dumpArgs(args))
}

// dumpArgs renders args for the fallback line and never panics
func (f *Formatter) dumpArgs(args []any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = "<unprintable>"
		}
	}()
	return f.dumper.Sprint(args)
}

// LevelToString converts level values to their line names
func LevelToString(level int64) string {
	switch level {
	case -4:
		return "DEBUG"
	case 0:
		return "INFO"
	case 4:
		return "WARNING"
	case 8:
		return "ERROR"
	case 12:
		return "PROC"
	default:
		return "LEVEL(" + strconv.FormatInt(level, 10) + ")"
	}
}

// AppendLevel appends the level name without allocating for known levels
func AppendLevel(dst []byte, level int64) []byte {
	switch level {
	case -4, 0, 4, 8, 12:
		return append(dst, LevelToString(level)...)
	}
	dst = append(dst, "LEVEL("...)
	dst = strconv.AppendInt(dst, level, 10)
	return append(dst, ')')
}

// baseName strips directories from a source path
func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
