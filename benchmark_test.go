package nexuslog

import (
	"path/filepath"
	"testing"
)

func benchmarkEngine(b *testing.B, unixTS bool) *Engine {
	b.Helper()
	cfg := DefaultConfig()
	cfg.Filename = filepath.Join(b.TempDir(), "bench.log")
	cfg.UnixTS = unixTS

	e, err := NewEngine(cfg)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = e.Shutdown() })
	return e
}

func BenchmarkLoggerInfo(b *testing.B) {
	modes := []struct {
		name   string
		unixTS bool
	}{
		{"Formatted", false},
		{"UnixEpoch", true},
	}

	for _, mode := range modes {
		b.Run(mode.name, func(b *testing.B) {
			l := benchmarkEngine(b, mode.unixTS).GetLogger("bench")
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.Info("Benchmark message number %d", i)
			}
		})
	}
}

func BenchmarkLoggerLiteral(b *testing.B) {
	l := benchmarkEngine(b, true).GetLogger("bench")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Info("static message without arguments")
	}
}

func BenchmarkLoggerParallel(b *testing.B) {
	l := benchmarkEngine(b, true).GetLogger("bench")
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			l.Info("parallel message %d", i)
			i++
		}
	})
}

func BenchmarkLoggerFiltered(b *testing.B) {
	l := benchmarkEngine(b, true).GetLogger("bench")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Debug("filtered out")
	}
}
