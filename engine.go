package nexuslog

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/walras-group/nexuslog/formatter"
	"github.com/walras-group/nexuslog/sanitizer"
)

// Engine owns the queue, the writer goroutine and the output file.
// Loggers obtained from it are cheap handles.
type Engine struct {
	cfg       *Config
	filter    *levelFilter
	formatter *formatter.Formatter
	queue     *recordQueue
	sink      *fileSink
	state     State
	registry  sync.Map // loggerKey -> *Logger

	now     func() time.Time
	open    openFunc
	bufPool sync.Pool
	spare   *batch // Writer-owned batch swapped into the queue

	flushRequestChan chan chan struct{}
	flushMutex       sync.Mutex
	done             chan struct{}
	startTime        time.Time

	shutdownOnce sync.Once
	shutdownErr  error

	errMu    sync.Mutex
	lastErr  error
	failures error // Record loss and close failures, returned by Shutdown
}

// engineOption adjusts engine internals before startup
type engineOption func(*Engine)

// withClock replaces the time source
func withClock(now func() time.Time) engineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// withOpener replaces the file opener
func withOpener(open openFunc) engineOption {
	return func(e *Engine) {
		e.open = open
	}
}

// NewEngine validates cfg, opens the initial output file and starts the writer.
// The engine keeps its own copy of cfg.
func NewEngine(cfg *Config) (*Engine, error) {
	return newEngine(cfg)
}

func newEngine(cfg *Config, opts ...engineOption) (*Engine, error) {
	if cfg == nil {
		return nil, fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clone()
	e := &Engine{
		cfg:              c,
		now:              time.Now,
		open:             openLogFile,
		flushRequestChan: make(chan chan struct{}, 1),
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	mode := formatter.Formatted
	if c.UnixTS {
		mode = formatter.UnixEpoch
	}
	e.formatter = formatter.New(sanitizer.New(sanitizer.Escape)).
		Mode(mode).
		TimestampFormat(c.TimestampFormat).
		UTC(c.UTC)

	e.filter = newLevelFilter(c)
	e.queue = newRecordQueue(int(c.BatchSize), int(c.QueueSize))
	e.spare = newBatch(cap(e.queue.active.buf))
	e.bufPool.New = func() any {
		b := make([]byte, 0, lineBufferSize)
		return &b
	}

	if dir := filepath.Dir(c.Filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmtErrorf("failed to create log directory '%s': %w", dir, err)
		}
	}

	e.sink = newFileSink(c.Filename, c.UnixTS, e.open)
	e.startTime = e.now()
	if err := e.rotate(e.dayKey(e.startTime)); err != nil {
		return nil, err
	}

	e.state.storePhase(PhaseRunning)
	go e.processLogs()

	return e, nil
}

// Shutdown stops accepting records, drains everything already accepted,
// syncs and closes the file. It blocks until the writer has exited.
// Repeated calls return the first result.
func (e *Engine) Shutdown() error {
	e.shutdownOnce.Do(func() {
		e.state.storePhase(PhaseDraining)
		e.queue.close()
		<-e.done
		e.state.storePhase(PhaseStopped)

		e.errMu.Lock()
		e.shutdownErr = e.failures
		e.errMu.Unlock()
	})
	return e.shutdownErr
}

// Flush writes all pending records, syncs the file and waits for completion or timeout.
func (e *Engine) Flush(timeout time.Duration) error {
	e.flushMutex.Lock()
	defer e.flushMutex.Unlock()

	switch e.Phase() {
	case PhaseRunning:
	case PhaseIdle:
		return ErrNotRunning
	default:
		return ErrShutdown
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	confirmChan := make(chan struct{})

	select {
	case e.flushRequestChan <- confirmChan:
	case <-e.done:
		return ErrShutdown
	case <-timer.C:
		return fmtErrorf("failed to send flush request to writer within %v", timeout)
	}

	select {
	case <-confirmChan:
		return nil
	case <-e.done:
		return ErrShutdown
	case <-timer.C:
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Stats returns a snapshot of the engine counters
func (e *Engine) Stats() Stats {
	return e.state.snapshot()
}

// Phase returns the lifecycle stage
func (e *Engine) Phase() Phase {
	return e.state.loadPhase()
}

// Config returns a copy of the engine configuration
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// LastError returns the most recent sink error, nil if none occurred
func (e *Engine) LastError() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.lastErr
}

// dayKey returns the calendar day used for file identity, 0 in unix mode
func (e *Engine) dayKey(t time.Time) int32 {
	if e.cfg.UnixTS {
		return 0
	}
	return e.formatter.DayKey(t)
}

// reportError records a sink error and forwards it to the configured outlets
func (e *Engine) reportError(err error) {
	e.errMu.Lock()
	e.lastErr = err
	e.errMu.Unlock()

	if e.cfg.ErrorHandler != nil {
		e.cfg.ErrorHandler(err)
	}
	e.internalLog("%v\n", err)
}

// addFailure keeps err for the Shutdown result
func (e *Engine) addFailure(err error) {
	e.errMu.Lock()
	e.failures = combineErrors(e.failures, err)
	e.errMu.Unlock()
}
