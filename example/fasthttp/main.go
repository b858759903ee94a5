package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/walras-group/nexuslog"
	"github.com/walras-group/nexuslog/compat"
)

func main() {
	cfg, err := nexuslog.NewConfigFromDefaults(map[string]any{
		"filename":   "./logs/fasthttp.log",
		"unix_ts":    false,
		"batch_size": 2048,
	})
	if err != nil {
		panic(err)
	}
	engine, err := nexuslog.NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	defer engine.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter, err := compat.NewBuilder().
		WithEngine(engine).
		BuildFastHTTP(
			compat.WithDefaultLevel(nexuslog.LevelInfo),
			compat.WithLevelDetector(customLevelDetector),
		)
	if err != nil {
		panic(err)
	}

	access := engine.GetLogger("access")

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			ctx.SetContentType("text/plain")
			fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
			access.Info("%s %s %d", string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode())
		},
		Logger: fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func customLevelDetector(msg string) int64 {
	if strings.Contains(msg, "connection cannot be served") {
		return nexuslog.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return nexuslog.LevelError
	}
	return compat.DetectLogLevel(msg)
}
