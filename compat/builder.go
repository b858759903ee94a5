package compat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/walras-group/nexuslog"
)

// Default logger names used by the adapters
const (
	GnetLoggerName     = "gnet"
	FastHTTPLoggerName = "fasthttp"
	ZapLoggerName      = "zap"
)

// Builder creates configured logger adapters for gnet, fasthttp and zap.
// It can use an existing *nexuslog.Engine or create a new one from a *nexuslog.Config.
type Builder struct {
	engine *nexuslog.Engine
	cfg    *nexuslog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithEngine specifies an existing engine to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithEngine(e *nexuslog.Engine) *Builder {
	if e == nil {
		b.err = fmt.Errorf("nexuslog/compat: provided engine cannot be nil")
		return b
	}
	b.engine = e
	return b
}

// WithConfig provides a configuration for a new engine.
// If neither WithEngine nor WithConfig is used, the default configuration applies.
func (b *Builder) WithConfig(cfg *nexuslog.Config) *Builder {
	b.cfg = cfg
	return b
}

// getEngine resolves the engine to be used, creating one if necessary
func (b *Builder) getEngine() (*nexuslog.Engine, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.engine != nil {
		return b.engine, nil
	}

	cfg := b.cfg
	if cfg == nil {
		cfg = nexuslog.DefaultConfig()
	}

	e, err := nexuslog.NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	// Cached for subsequent builds with this builder
	b.engine = e
	return e, nil
}

// BuildGnet creates a gnet adapter on the "gnet" named logger
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	e, err := b.getEngine()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(e.GetLogger(GnetLoggerName), opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter on the "fasthttp" named logger
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	e, err := b.getEngine()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(e.GetLogger(FastHTTPLoggerName), opts...), nil
}

// BuildZap creates a *zap.Logger on the "zap" named logger
func (b *Builder) BuildZap(opts ...ZapOption) (*zap.Logger, error) {
	e, err := b.getEngine()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(e.GetLogger(ZapLoggerName), opts...), nil
}

// GetEngine returns the underlying engine, creating it if needed
func (b *Builder) GetEngine() (*nexuslog.Engine, error) {
	return b.getEngine()
}

// --- Example Usage ---
//
//	engine, err := nexuslog.NewBuilder().Filename("logs/app.log").Level(nexuslog.LevelDebug).Build()
//	if err != nil { /* handle error */ }
//	defer engine.Shutdown()
//
//	builder := compat.NewBuilder().WithEngine(engine)
//
//	gnetLogger, _ := builder.BuildGnet()
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//
//	zapLogger, _ := builder.BuildZap()
//	zapLogger.Info("started", zap.Int("port", 8080))
