package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/walras-group/nexuslog"
)

const (
	totalBursts    = 200
	logsPerBurst   = 500
	maxMessageSize = 512
	numWorkers     = 64
	numNames       = 8
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[nexuslog]
  filename = "./logs/stress.log"
  level = "debug"
  name_levels = "worker-7=warn"
  unix_ts = true
  batch_size = 512
  queue_size = 0 # unbounded, nothing may be dropped
  flush_interval_ms = 50
  heartbeat_interval_s = 1
`

var levels = []int64{
	nexuslog.LevelDebug,
	nexuslog.LevelInfo,
	nexuslog.LevelWarn,
	nexuslog.LevelError,
}

func generateRandomMessage(r *rand.Rand, size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[r.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity and reports how many records passed the filter
func logBurst(loggers []*nexuslog.Logger, r *rand.Rand, burstID int) int {
	logged := 0
	for i := 0; i < logsPerBurst; i++ {
		l := loggers[(burstID+i)%len(loggers)]
		level := levels[r.Intn(len(levels))]
		if l.Enabled(level) {
			logged++
		}
		msg := generateRandomMessage(r, r.Intn(maxMessageSize)+10)
		l.Log(level, "bst=%d seq=%d rnd=%d %s", burstID, i, r.Int63(), msg)
	}
	return logged
}

// worker goroutine function
func worker(loggers []*nexuslog.Logger, burstChan chan int, wg *sync.WaitGroup, completedBursts, expected *atomic.Int64) {
	defer wg.Done()
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for burstID := range burstChan {
		expected.Add(int64(logBurst(loggers, r, burstID)))
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

// countLines counts non-PROC records in the log file
func countLines(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var n int64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		header, _, _ := strings.Cut(scanner.Text(), "] ")
		if !strings.HasSuffix(header, " PROC") {
			n++
		}
	}
	return n, scanner.Err()
}

func main() {
	keep := flag.Bool("keep", false, "keep the config file and logs directory")
	flag.Parse()

	fmt.Println("--- nexuslog Stress Test ---")

	// --- Setup Config ---
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
		os.Exit(1)
	}
	logsDir := "./logs"
	_ = os.RemoveAll(logsDir)
	if !*keep {
		defer os.Remove(configFile)
		defer os.RemoveAll(logsDir)
	}

	cfg, err := nexuslog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// --- Initialize Engine ---
	engine, err := nexuslog.NewEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize engine: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Engine initialized. Logs will be written to: %s\n", cfg.Filename)

	loggers := make([]*nexuslog.Logger, numNames)
	for i := range loggers {
		loggers[i] = engine.GetLogger(fmt.Sprintf("worker-%d", i))
	}

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	var completedBursts, expected atomic.Int64
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(loggers, burstChan, &wg, &completedBursts, &expected)
	}

	// --- Run Test ---
	startTime := time.Now()
submit:
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			break submit
		}
	}
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate calls/sec: %.2f\n", logsPerSec)
	}

	// --- Shutdown Engine ---
	fmt.Println("Shutting down engine...")
	if err := engine.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Engine shutdown error: %v\n", err)
	}

	stats := engine.Stats()
	fmt.Printf("accepted=%d written=%d dropped=%d lost=%d heartbeats=%d\n",
		stats.Accepted, stats.Written, stats.Dropped, stats.Lost, stats.Heartbeats)

	lines, err := countLines(filepath.Clean(cfg.Filename))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read log file: %v\n", err)
		os.Exit(1)
	}
	if lines != expected.Load() {
		fmt.Fprintf(os.Stderr, "MISMATCH: expected %d records, found %d\n", expected.Load(), lines)
		os.Exit(1)
	}
	fmt.Printf("Verified %d records in %s\n", lines, cfg.Filename)
}
