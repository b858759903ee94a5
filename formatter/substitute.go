package formatter

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Substitution errors, wrapped in *ArgError
var (
	ErrTooFewArgs     = errors.New("not enough arguments for template")
	ErrTooManyArgs    = errors.New("too many arguments for template")
	ErrBadVerb        = errors.New("unknown or malformed verb")
	ErrArgType        = errors.New("argument kind does not match verb")
	ErrUnsupportedArg = errors.New("unsupported argument kind")
	ErrArgPanic       = errors.New("argument method panicked")
)

// ArgError reports where substitution failed
type ArgError struct {
	Index int  // Argument position, -1 when the template itself is malformed
	Verb  byte // Offending verb, 0 if none
	Err   error
}

func (e *ArgError) Error() string {
	var sb strings.Builder
	sb.WriteString("formatter: ")
	if e.Index >= 0 {
		sb.WriteString("arg ")
		sb.WriteString(strconv.Itoa(e.Index))
		sb.WriteString(" ")
	}
	if e.Verb != 0 {
		sb.WriteString("%")
		sb.WriteByte(e.Verb)
		sb.WriteString(" ")
	}
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *ArgError) Unwrap() error {
	return e.Err
}

// AppendMessage substitutes args positionally into template and appends the
// sanitized result to dst. Supported verbs: %s %v (any supported kind),
// %d %i (integers), %f %.Nf (floats and integers), %x (integers, strings,
// bytes) and %% for a literal percent sign. A template without args is
// copied literally.
// The returned buffer is always valid; on error it holds the partial output.
func (f *Formatter) AppendMessage(dst []byte, template string, args []any) ([]byte, error) {
	if len(args) == 0 {
		return f.sanitizer.Append(dst, template), nil
	}

	argIdx := 0
	for i := 0; i < len(template); {
		j := strings.IndexByte(template[i:], '%')
		if j < 0 {
			dst = f.sanitizer.Append(dst, template[i:])
			break
		}
		dst = f.sanitizer.Append(dst, template[i:i+j])
		i += j + 1

		prec := -1
		if i < len(template) && template[i] == '.' {
			i++
			start := i
			for i < len(template) && template[i] >= '0' && template[i] <= '9' {
				i++
			}
			if i == start {
				return dst, &ArgError{Index: -1, Err: ErrBadVerb}
			}
			prec, _ = strconv.Atoi(template[start:i])
		}
		if i >= len(template) {
			return dst, &ArgError{Index: -1, Err: ErrBadVerb}
		}

		verb := template[i]
		i++
		if verb == '%' {
			if prec >= 0 {
				return dst, &ArgError{Index: -1, Verb: verb, Err: ErrBadVerb}
			}
			dst = append(dst, '%')
			continue
		}

		if argIdx >= len(args) {
			return dst, &ArgError{Index: argIdx, Verb: verb, Err: ErrTooFewArgs}
		}
		var err error
		dst, err = f.appendArg(dst, verb, prec, args[argIdx])
		if err != nil {
			return dst, &ArgError{Index: argIdx, Verb: verb, Err: err}
		}
		argIdx++
	}

	if argIdx < len(args) {
		return dst, &ArgError{Index: argIdx, Err: ErrTooManyArgs}
	}
	return dst, nil
}

// appendArg renders one argument for one verb
func (f *Formatter) appendArg(dst []byte, verb byte, prec int, arg any) ([]byte, error) {
	switch verb {
	case 's', 'v':
		return f.appendValue(dst, arg, prec)

	case 'd', 'i':
		if n, ok := asInt(arg); ok {
			return strconv.AppendInt(dst, n, 10), nil
		}
		if n, ok := asUint(arg); ok {
			return strconv.AppendUint(dst, n, 10), nil
		}
		return dst, kindError(arg)

	case 'f':
		if prec < 0 {
			prec = 6
		}
		switch v := arg.(type) {
		case float64:
			return strconv.AppendFloat(dst, v, 'f', prec, 64), nil
		case float32:
			return strconv.AppendFloat(dst, float64(v), 'f', prec, 32), nil
		}
		if n, ok := asInt(arg); ok {
			return strconv.AppendFloat(dst, float64(n), 'f', prec, 64), nil
		}
		if n, ok := asUint(arg); ok {
			return strconv.AppendFloat(dst, float64(n), 'f', prec, 64), nil
		}
		return dst, kindError(arg)

	case 'x':
		if n, ok := asInt(arg); ok {
			return strconv.AppendInt(dst, n, 16), nil
		}
		if n, ok := asUint(arg); ok {
			return strconv.AppendUint(dst, n, 16), nil
		}
		switch v := arg.(type) {
		case string:
			return appendHexBytes(dst, v), nil
		case []byte:
			return appendHexBytes(dst, string(v)), nil
		}
		return dst, kindError(arg)
	}
	return dst, ErrBadVerb
}

// appendValue renders any supported kind in its natural text form
func (f *Formatter) appendValue(dst []byte, arg any, prec int) ([]byte, error) {
	switch v := arg.(type) {
	case string:
		return f.sanitizer.Append(dst, v), nil
	case []byte:
		return f.sanitizer.Append(dst, string(v)), nil
	case bool:
		return strconv.AppendBool(dst, v), nil
	case float64:
		return strconv.AppendFloat(dst, v, 'f', prec, 64), nil
	case float32:
		return strconv.AppendFloat(dst, float64(v), 'f', prec, 32), nil
	case time.Time:
		return v.In(f.location).AppendFormat(dst, time.RFC3339Nano), nil
	case time.Duration:
		return append(dst, v.String()...), nil
	case error:
		return f.appendMethod(dst, arg, v.Error)
	case fmt.Stringer:
		return f.appendMethod(dst, arg, v.String)
	case nil:
		return append(dst, "nil"...), nil
	}
	if n, ok := asInt(arg); ok {
		return strconv.AppendInt(dst, n, 10), nil
	}
	if n, ok := asUint(arg); ok {
		return strconv.AppendUint(dst, n, 10), nil
	}
	return dst, ErrUnsupportedArg
}

// appendMethod appends the result of an Error or String method. A panic
// renders "<nil>" for a nil pointer receiver, like fmt, and fails with
// ErrArgPanic otherwise.
func (f *Formatter) appendMethod(dst []byte, arg any, method func() string) ([]byte, error) {
	text, err := callMethod(arg, method)
	if err != nil {
		return dst, err
	}
	return f.sanitizer.Append(dst, text), nil
}

func callMethod(arg any, method func() string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if v := reflect.ValueOf(arg); v.Kind() == reflect.Pointer && v.IsNil() {
				text, err = "<nil>", nil
				return
			}
			text, err = "", ErrArgPanic
		}
	}()
	return method(), nil
}

// kindError distinguishes a supported kind used with the wrong verb from an
// unsupported kind
func kindError(arg any) error {
	if supported(arg) {
		return ErrArgType
	}
	return ErrUnsupportedArg
}

// supported reports whether arg belongs to the fixed set of argument kinds
func supported(arg any) bool {
	switch arg.(type) {
	case string, []byte, bool, float64, float32, time.Time, time.Duration, error, fmt.Stringer, nil:
		return true
	}
	if _, ok := asInt(arg); ok {
		return true
	}
	_, ok := asUint(arg)
	return ok
}

func asInt(arg any) (int64, bool) {
	switch v := arg.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	}
	return 0, false
}

func asUint(arg any) (uint64, bool) {
	switch v := arg.(type) {
	case uint:
		return uint64(v), true
	case uint64:
		return v, true
	case uint32:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	}
	return 0, false
}

func appendHexBytes(dst []byte, s string) []byte {
	const hexChars = "0123456789abcdef"
	for i := 0; i < len(s); i++ {
		dst = append(dst, hexChars[s[i]>>4], hexChars[s[i]&0xF])
	}
	return dst
}
