package nexuslog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// logFile is the handle the sink writes through
type logFile interface {
	io.Writer
	Sync() error
	Close() error
}

// openFunc opens a log file for appending
type openFunc func(path string) (logFile, error)

// openLogFile opens path with append semantics, creating it if needed
func openLogFile(path string) (logFile, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// fileSink owns the output file. It is only used from the writer goroutine
// once the engine is running.
type fileSink struct {
	filename string
	unix     bool
	open     openFunc

	file logFile
	day  int32 // Identity of the open file, 0 in unix mode
	path string
	size int64 // Bytes written since open
}

func newFileSink(filename string, unix bool, open openFunc) *fileSink {
	if open == nil {
		open = openLogFile
	}
	return &fileSink{
		filename: filename,
		unix:     unix,
		open:     open,
	}
}

// pathFor returns the file for a day: <prefix>_<YYYY-MM-DD><ext>, or the
// configured name in unix mode
func (s *fileSink) pathFor(day int32) string {
	if s.unix {
		return s.filename
	}
	ext := filepath.Ext(s.filename)
	base := strings.TrimSuffix(s.filename, ext)
	return fmt.Sprintf("%s_%04d-%02d-%02d%s", base, day/10000, day/100%100, day%100, ext)
}

// current reports whether the file for day is open
func (s *fileSink) current(day int32) bool {
	if s.file == nil {
		return false
	}
	return s.unix || s.day == day
}

// openDay opens the file for day; the previous file must be closed. Returns true when a
// previous identity was replaced by a different day.
func (s *fileSink) openDay(day int32) (bool, error) {
	if s.unix {
		day = 0
	}
	rotated := !s.unix && s.day != 0 && s.day != day

	path := s.pathFor(day)
	f, err := s.open(path)
	if err != nil {
		return false, fmtErrorf("failed to open log file '%s': %w", path, err)
	}

	s.file = f
	s.day = day
	s.path = path
	s.size = 0
	return rotated, nil
}

// write appends p to the open file
func (s *fileSink) write(p []byte) (int, error) {
	if s.file == nil {
		return 0, fmtErrorf("no open log file")
	}
	n, err := s.file.Write(p)
	s.size += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, fmtErrorf("failed to write to log file '%s': %w", s.path, err)
	}
	return n, nil
}

// sync flushes the open file to stable storage
func (s *fileSink) sync() error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w", s.path, err)
	}
	return nil
}

// close syncs and closes the open file. The day identity is kept so the
// next openDay can tell a reopen from a rotation.
func (s *fileSink) close() error {
	if s.file == nil {
		return nil
	}
	err := s.sync()
	if cerr := s.file.Close(); cerr != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s': %w", s.path, cerr))
	}
	s.file = nil
	return err
}

// drop abandons the handle after a failure so the next write reopens it
func (s *fileSink) drop() {
	if s.file == nil {
		return
	}
	_ = s.file.Close()
	s.file = nil
}

// expire closes a dated file whose day is over
func (s *fileSink) expire(today int32) error {
	if s.unix || s.file == nil || s.day >= today {
		return nil
	}
	return s.close()
}
