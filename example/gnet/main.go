package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/walras-group/nexuslog"
	"github.com/walras-group/nexuslog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	log *nexuslog.Logger
}

func (es *echoServer) OnBoot(eng gnet.Engine) gnet.Action {
	es.log.Info("echo server booted")
	return gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	es.log.Debug("echo %d bytes to %s", len(buf), c.RemoteAddr().String())
	c.Write(buf)
	return gnet.None
}

func main() {
	engine, err := nexuslog.NewBuilder().
		Filename("./logs/gnet.log").
		Level(nexuslog.LevelDebug).
		NameLevel(compat.GnetLoggerName, nexuslog.LevelInfo).
		Build()
	if err != nil {
		panic(err)
	}
	defer engine.Shutdown()

	gnetAdapter, err := compat.NewBuilder().WithEngine(engine).BuildGnet()
	if err != nil {
		panic(err)
	}

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{log: engine.GetLogger("echo")},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
