package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/walras-group/nexuslog"
)

func run(name string, cfg *nexuslog.Config, total, producers int) error {
	engine, err := nexuslog.NewEngine(cfg)
	if err != nil {
		return err
	}
	l := engine.GetLogger("bench")

	start := time.Now()
	var wg sync.WaitGroup
	per := total / producers
	for p := 0; p < producers; p++ {
		n := per
		if p == producers-1 {
			n += total % producers
		}
		wg.Add(1)
		go func(p, n int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				l.Info("producer=%d seq=%d price=%.2f side=%s", p, i, 101.25, "buy")
			}
		}(p, n)
	}
	wg.Wait()
	enqueued := time.Since(start)

	if err := engine.Shutdown(); err != nil {
		return err
	}
	drained := time.Since(start)

	stats := engine.Stats()
	fmt.Printf("%-10s calls=%d enqueue=%v (%.0f/s) drained=%v written=%d dropped=%d\n",
		name, total, enqueued.Round(time.Millisecond),
		float64(total)/enqueued.Seconds(), drained.Round(time.Millisecond),
		stats.Written, stats.Dropped)
	return nil
}

func main() {
	total := flag.Int("n", 1_000_000, "total records")
	producers := flag.Int("p", 4, "producer goroutines")
	configPath := flag.String("config", "", "optional TOML config with a [nexuslog] table")
	dir := flag.String("dir", "", "output directory, temporary if empty")
	flag.Parse()

	if *producers <= 0 || *total <= 0 {
		fmt.Fprintln(os.Stderr, "-n and -p must be positive")
		os.Exit(2)
	}

	outDir := *dir
	if outDir == "" {
		tmp, err := os.MkdirTemp("", "nexuslog-bench")
		if err != nil {
			fmt.Fprintf(os.Stderr, "temp dir: %v\n", err)
			os.Exit(1)
		}
		defer os.RemoveAll(tmp)
		outDir = tmp
	}

	base := nexuslog.DefaultConfig()
	if *configPath != "" {
		cfg, err := nexuslog.NewConfigFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		base = cfg
	}

	unixCfg := base.Clone()
	unixCfg.UnixTS = true
	unixCfg.Filename = filepath.Join(outDir, "unix.log")

	formattedCfg := base.Clone()
	formattedCfg.UnixTS = false
	formattedCfg.Filename = filepath.Join(outDir, "formatted.log")

	for _, c := range []struct {
		name string
		cfg  *nexuslog.Config
	}{
		{"unix", unixCfg},
		{"formatted", formattedCfg},
	} {
		if err := run(c.name, c.cfg, *total, *producers); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", c.name, err)
			os.Exit(1)
		}
	}
}
