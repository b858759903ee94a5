// Package sanitizer keeps user-supplied text from breaking the one-record-per-line
// layout of the log file by transforming non-printable runes.
package sanitizer

import (
	"strconv"
	"unicode/utf8"
)

// Mode selects how non-printable runes are transformed
type Mode int

const (
	None      Mode = iota // Passthrough
	HexEncode             // Encodes the rune's UTF-8 bytes as "<XXYY>"
	Strip                 // Removes the rune
	Escape                // JSON-style backslash escapes, "\n", "\t", "\u0001"
)

const hexChars = "0123456789abcdef"

// Sanitizer applies a single transform mode. It holds no buffers and is safe
// for concurrent use.
type Sanitizer struct {
	mode Mode
}

// New creates a sanitizer for the given mode
func New(mode Mode) *Sanitizer {
	return &Sanitizer{mode: mode}
}

// Mode returns the configured transform mode
func (s *Sanitizer) Mode() Mode {
	return s.mode
}

// Sanitize returns the transformed copy of data
func (s *Sanitizer) Sanitize(data string) string {
	if s.mode == None || isClean(data) {
		return data
	}
	return string(s.Append(make([]byte, 0, len(data)+8), data))
}

// Append appends the transformed data to dst and returns the extended buffer.
// Printable ASCII runs are copied without per-rune work.
func (s *Sanitizer) Append(dst []byte, data string) []byte {
	if s.mode == None {
		return append(dst, data...)
	}

	for i := 0; i < len(data); {
		c := data[i]
		if c >= 0x20 && c < 0x7f {
			start := i
			for i < len(data) && data[i] >= 0x20 && data[i] < 0x7f {
				i++
			}
			dst = append(dst, data[start:i]...)
			continue
		}

		r, size := utf8.DecodeRuneInString(data[i:])
		if r == utf8.RuneError && size == 1 {
			// Invalid encoding, treat the single byte as non-printable
			dst = s.transformByte(dst, c)
			i++
			continue
		}
		if strconv.IsPrint(r) {
			dst = append(dst, data[i:i+size]...)
		} else {
			dst = s.transformRune(dst, r, data[i:i+size])
		}
		i += size
	}
	return dst
}

// transformRune applies the mode to a non-printable rune
func (s *Sanitizer) transformRune(dst []byte, r rune, raw string) []byte {
	switch s.mode {
	case Strip:
		return dst
	case HexEncode:
		dst = append(dst, '<')
		for j := 0; j < len(raw); j++ {
			dst = append(dst, hexChars[raw[j]>>4], hexChars[raw[j]&0xF])
		}
		return append(dst, '>')
	case Escape:
		switch r {
		case '\n':
			return append(dst, '\\', 'n')
		case '\r':
			return append(dst, '\\', 'r')
		case '\t':
			return append(dst, '\\', 't')
		case '\b':
			return append(dst, '\\', 'b')
		case '\f':
			return append(dst, '\\', 'f')
		}
		if r > 0xFFFF {
			dst = append(dst, '\\', 'U')
			return appendHex(dst, uint32(r), 8)
		}
		dst = append(dst, '\\', 'u')
		return appendHex(dst, uint32(r), 4)
	}
	return append(dst, raw...)
}

// transformByte handles bytes that are not valid UTF-8
func (s *Sanitizer) transformByte(dst []byte, c byte) []byte {
	switch s.mode {
	case Strip:
		return dst
	case HexEncode:
		return append(dst, '<', hexChars[c>>4], hexChars[c&0xF], '>')
	case Escape:
		return append(dst, '\\', 'x', hexChars[c>>4], hexChars[c&0xF])
	}
	return append(dst, c)
}

// appendHex writes v as exactly width lowercase hex digits
func appendHex(dst []byte, v uint32, width int) []byte {
	for shift := (width - 1) * 4; shift >= 0; shift -= 4 {
		dst = append(dst, hexChars[(v>>uint(shift))&0xF])
	}
	return dst
}

// isClean reports whether data is printable ASCII only
func isClean(data string) bool {
	for i := 0; i < len(data); i++ {
		if data[i] < 0x20 || data[i] >= 0x7f {
			return false
		}
	}
	return true
}
