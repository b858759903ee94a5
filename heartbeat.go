package nexuslog

import (
	"time"

	"github.com/walras-group/nexuslog/formatter"
)

const procTemplate = "type=proc sequence=%d uptime_hours=%.2f accepted=%d written=%d dropped=%d lost=%d format_errors=%d write_errors=%d rotations=%d"

// handleHeartbeat processes a heartbeat timer tick
func (e *Engine) handleHeartbeat() {
	e.logProcHeartbeat()
	e.writePending()
}

// logProcHeartbeat queues a PROC record with the engine counters
func (e *Engine) logProcHeartbeat() {
	sequence := e.state.HeartbeatSequence.Add(1)
	now := e.now()
	uptimeHours := now.Sub(e.startTime).Hours()
	stats := e.state.snapshot()

	args := []any{
		sequence,
		uptimeHours,
		stats.Accepted,
		stats.Written,
		stats.Dropped,
		stats.Lost,
		stats.FormatErrors,
		stats.WriteErrors,
		stats.Rotations,
	}

	if e.enqueueProc(now, procTemplate, args) {
		e.state.Heartbeats.Add(1)
	} else {
		e.internalLog("heartbeat %d skipped, queue full\n", sequence)
	}
}

// enqueueProc formats a PROC record and queues it without blocking.
// The writer cannot wait on its own queue.
func (e *Engine) enqueueProc(now time.Time, template string, args []any) bool {
	rec := formatter.Record{
		Time:    now,
		Level:   LevelProc,
		Message: template,
		Args:    args,
	}

	bp := e.getBuffer()
	line, err := e.formatter.Format((*bp)[:0], &rec)
	if err != nil {
		e.state.FormatErrors.Add(1)
	}
	queued := e.queue.tryEnqueue(line, e.dayKey(now))

	*bp = line
	e.putBuffer(bp)
	return queued
}
