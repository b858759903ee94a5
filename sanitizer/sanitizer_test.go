package sanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sanitizeCase struct {
	in, want string
}

var modeCases = map[Mode][]sanitizeCase{
	None: {
		{"hello\x00world\n", "hello\x00world\n"},
	},
	HexEncode: {
		{"test\x00data", "test<00>data"},
		{"bell\x07tab\x09form\x0c", "bell<07>tab<09>form<0c>"},
		{"Hello World 123!@#", "Hello World 123!@#"},
		{"line1\u0085line2", "line1<c285>line2"}, // C1 NEXT LINE as its UTF-8 bytes
		{"Hello 世界 ✓", "Hello 世界 ✓"},
		{"bad\xffbyte", "bad<ff>byte"},
	},
	Strip: {
		{"clean\x00\x07\ntxt", "cleantxt"},
		{"hello world", "hello world"},
	},
	Escape: {
		{"line1\nline2\ttab\rreturn", `line1\nline2\ttab\rreturn`},
		{"text\x01\x1f", `text\u0001\u001f`},
		{"back\bspace form\ffeed", `back\bspace form\ffeed`},
		{"a\x7fb\u0085c", `a\u007fb\u0085c`},
		{"naïve │ 世界", "naïve │ 世界"},
	},
}

var modeNames = map[Mode]string{None: "none", HexEncode: "hex", Strip: "strip", Escape: "escape"}

func TestSanitizeModes(t *testing.T) {
	for mode, cases := range modeCases {
		t.Run(modeNames[mode], func(t *testing.T) {
			s := New(mode)
			for _, c := range cases {
				assert.Equal(t, c.want, s.Sanitize(c.in), "input %q", c.in)
			}
		})
	}
}

func TestAppendExtendsBuffer(t *testing.T) {
	s := New(Escape)
	buf := []byte("prefix ")
	buf = s.Append(buf, "a\nb")
	assert.Equal(t, "prefix a\\nb", string(buf))
	assert.Equal(t, Escape, s.Mode())
}

func TestCleanInputIsCopiedAsIs(t *testing.T) {
	for mode := range modeCases {
		assert.Equal(t, "plain ascii 42", New(mode).Sanitize("plain ascii 42"))
	}
}

func TestEscapedOutputIsSingleLine(t *testing.T) {
	s := New(Escape)
	out := s.Sanitize("one\ntwo\r\nthree\u2028four")
	assert.NotContains(t, out, "\n")
	assert.NotContains(t, out, "\r")
	assert.Contains(t, out, "\\u2028")
}

func BenchmarkAppend(b *testing.B) {
	input := strings.Repeat("order filled\x00\n\t", 64)

	for _, mode := range []Mode{None, HexEncode, Strip, Escape} {
		s := New(mode)
		b.Run(modeNames[mode], func(b *testing.B) {
			buf := make([]byte, 0, len(input)*2)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf = s.Append(buf[:0], input)
			}
		})
	}
}
