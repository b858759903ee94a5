package compat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/walras-group/nexuslog"
)

// zapFrames is the number of frames from ZapCore.Write up to the caller of a zap.Logger method
const zapFrames = 3

var _ zapcore.Core = (*ZapCore)(nil)

// ZapCore routes zap entries into a nexuslog.Logger.
// Structured fields are rendered as key=value pairs after the message.
type ZapCore struct {
	logger *nexuslog.Logger
	fields []zapcore.Field
	skip   int
}

// ZapOption allows customizing core behavior
type ZapOption func(*ZapCore)

// WithZapCallerSkip adds frames between the user call and the zap.Logger method,
// e.g. 1 for the SugaredLogger
func WithZapCallerSkip(skip int) ZapOption {
	return func(c *ZapCore) {
		c.skip = skip
	}
}

// NewZapCore creates a zapcore.Core backed by logger
func NewZapCore(logger *nexuslog.Logger, opts ...ZapOption) *ZapCore {
	c := &ZapCore{logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewZapLogger wraps logger in a *zap.Logger
func NewZapLogger(logger *nexuslog.Logger, opts ...ZapOption) *zap.Logger {
	return zap.New(NewZapCore(logger, opts...))
}

// Enabled reports whether the nexuslog threshold admits lvl
func (c *ZapCore) Enabled(lvl zapcore.Level) bool {
	return c.logger.Enabled(zapLevel(lvl))
}

// With returns a core that renders fields on every entry
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return &clone
}

// Check adds the core to ce when the entry level is enabled
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write renders the entry and its fields into a single nexuslog record
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	var sb strings.Builder
	if ent.LoggerName != "" {
		sb.WriteString(ent.LoggerName)
		sb.WriteString(": ")
	}
	sb.WriteString(ent.Message)

	if len(c.fields)+len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range c.fields {
			f.AddTo(enc)
		}
		for _, f := range fields {
			f.AddTo(enc)
		}
		appendFields(&sb, enc.Fields)
	}

	c.logger.LogDepth(zapFrames+c.skip, zapLevel(ent.Level), sb.String())
	return nil
}

// Sync flushes pending records of the underlying engine
func (c *ZapCore) Sync() error {
	return c.logger.Flush(time.Second)
}

// appendFields writes fields sorted by key
func appendFields(sb *strings.Builder, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteByte('=')
		fmt.Fprint(sb, fields[k])
	}
}

// zapLevel maps zap levels onto nexuslog levels, DPanic and above become errors
func zapLevel(lvl zapcore.Level) int64 {
	switch {
	case lvl <= zapcore.DebugLevel:
		return nexuslog.LevelDebug
	case lvl == zapcore.InfoLevel:
		return nexuslog.LevelInfo
	case lvl == zapcore.WarnLevel:
		return nexuslog.LevelWarn
	default:
		return nexuslog.LevelError
	}
}
