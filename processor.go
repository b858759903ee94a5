package nexuslog

import (
	"bytes"
	"fmt"
	"time"
)

// processLogs is the writer loop running in its own goroutine
func (e *Engine) processLogs() {
	defer close(e.done)

	timers := e.setupProcessingTimers()
	defer e.closeProcessingTimers(timers)

	for {
		select {
		case <-e.queue.wake:
			// Closed is read before draining: nothing can be accepted after it
			if e.queue.isClosed() {
				e.finish()
				return
			}
			e.writePending()

		case <-timers.flushTicker.C:
			e.handleFlushTick()

		case confirmChan := <-e.flushRequestChan:
			e.handleFlushRequest(confirmChan)

		case <-timers.heartbeatChan:
			e.handleHeartbeat()
		}
	}
}

// writePending swaps out the active batch and writes it
func (e *Engine) writePending() {
	full := e.queue.swap(e.spare)
	if full.count > 0 {
		e.writeBatch(full)
		full.reset()
	}
	e.spare = full
}

// writeBatch writes every span in order. Once a span is given up the rest
// of the batch is discarded.
func (e *Engine) writeBatch(b *batch) {
	e.state.Batches.Add(1)

	for i, sp := range b.spans {
		lost, err := e.writeSpan(b.buf[sp.start:sp.end], sp)
		if err == nil {
			continue
		}

		for _, rest := range b.spans[i+1:] {
			lost += rest.count
		}
		e.state.Lost.Add(uint64(lost))
		lossErr := fmt.Errorf("%w, %d records discarded: %w", ErrSinkFailed, lost, err)
		e.reportError(lossErr)
		e.addFailure(lossErr)
		return
	}

	if e.cfg.SyncOnFlush {
		if err := e.sink.sync(); err != nil {
			e.state.WriteErrors.Add(1)
			e.reportError(err)
		}
	}
}

// writeSpan writes the lines of one day, retrying with backoff.
// Returns the number of records that could not be written.
func (e *Engine) writeSpan(data []byte, sp span) (int, error) {
	var off int
	for attempt := int64(0); ; attempt++ {
		err := e.rotate(sp.day)
		if err == nil {
			var n int
			n, err = e.sink.write(data[off:])
			off += n
			if err == nil {
				e.state.Written.Add(uint64(sp.count))
				return 0, nil
			}
		}

		e.state.WriteErrors.Add(1)
		e.reportError(err)
		e.sink.drop()

		if attempt >= e.cfg.MaxWriteRetries {
			complete := bytes.Count(data[:off], []byte{'\n'})
			e.state.Written.Add(uint64(complete))
			return sp.count - complete, err
		}
		time.Sleep(e.retryDelay(attempt))
	}
}

// rotate makes the file for day current
func (e *Engine) rotate(day int32) error {
	if e.sink.current(day) {
		return nil
	}
	if err := e.sink.close(); err != nil {
		e.state.WriteErrors.Add(1)
		e.reportError(err)
	}
	rotated, err := e.sink.openDay(day)
	if err != nil {
		return err
	}
	if rotated {
		e.state.Rotations.Add(1)
	}
	return nil
}

// handleFlushTick writes sub-batch traffic and closes a file whose day is over
func (e *Engine) handleFlushTick() {
	e.writePending()

	if err := e.sink.expire(e.dayKey(e.now())); err != nil {
		e.state.WriteErrors.Add(1)
		e.reportError(err)
	}
}

// handleFlushRequest handles an explicit flush request
func (e *Engine) handleFlushRequest(confirmChan chan struct{}) {
	e.writePending()
	if err := e.sink.sync(); err != nil {
		e.state.WriteErrors.Add(1)
		e.reportError(err)
	}
	close(confirmChan)
}

// finish drains the closed queue and closes the file
func (e *Engine) finish() {
	for e.queue.pending() > 0 {
		e.writePending()
	}

	if err := e.sink.close(); err != nil {
		e.state.WriteErrors.Add(1)
		e.reportError(err)
		e.addFailure(err)
	}

	// Everything is on disk, release flush callers that raced shutdown
	for {
		select {
		case confirmChan := <-e.flushRequestChan:
			close(confirmChan)
		default:
			return
		}
	}
}
