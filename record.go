package nexuslog

import (
	"runtime"

	"github.com/walras-group/nexuslog/formatter"
)

// emit renders one accepted record on the calling goroutine and queues it.
// depth counts extra frames between the handle method and the reported caller.
func (e *Engine) emit(depth int, level int64, msg string, args []any) {
	if e.state.loadPhase() != PhaseRunning {
		e.state.Dropped.Add(1)
		return
	}

	now := e.now()
	_, file, line, ok := runtime.Caller(callerSkip + depth)
	if !ok {
		file, line = "", 0
	}

	rec := formatter.Record{
		Time:    now,
		Level:   level,
		File:    file,
		Line:    line,
		Message: msg,
		Args:    args,
	}

	bp := e.getBuffer()
	out, err := e.formatter.Format((*bp)[:0], &rec)
	if err != nil {
		e.state.FormatErrors.Add(1)
	}

	if err := e.queue.enqueue(out, e.dayKey(now)); err != nil {
		e.state.Dropped.Add(1)
	} else {
		e.state.Accepted.Add(1)
	}

	*bp = out
	e.putBuffer(bp)
}

// getBuffer takes a line buffer from the pool
func (e *Engine) getBuffer() *[]byte {
	return e.bufPool.Get().(*[]byte)
}

// putBuffer returns a line buffer unless it grew too large to keep
func (e *Engine) putBuffer(bp *[]byte) {
	if cap(*bp) > maxPooledBufferSize {
		return
	}
	*bp = (*bp)[:0]
	e.bufPool.Put(bp)
}
