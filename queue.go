package nexuslog

import (
	"sync"
)

// span is a run of consecutive records sharing one calendar day
type span struct {
	day   int32
	start int
	end   int
	count int
}

// batch holds rendered lines back to back in completion order
type batch struct {
	buf   []byte
	count int
	spans []span
}

func newBatch(capacity int) *batch {
	return &batch{buf: make([]byte, 0, capacity)}
}

// add copies one line into the batch, extending the last span when the day matches
func (b *batch) add(line []byte, day int32) {
	start := len(b.buf)
	b.buf = append(b.buf, line...)
	b.count++
	if n := len(b.spans); n > 0 && b.spans[n-1].day == day {
		b.spans[n-1].end = len(b.buf)
		b.spans[n-1].count++
		return
	}
	b.spans = append(b.spans, span{day: day, start: start, end: len(b.buf), count: 1})
}

func (b *batch) reset() {
	b.buf = b.buf[:0]
	b.count = 0
	b.spans = b.spans[:0]
}

// recordQueue is the multi-producer single-consumer hand-off between
// logging goroutines and the writer
type recordQueue struct {
	mu      sync.Mutex
	notFull *sync.Cond
	active  *batch
	trigger int // Record count that wakes the writer
	limit   int // Max buffered records, 0 = unbounded
	closed  bool
	wake    chan struct{}
}

func newRecordQueue(batchSize, limit int) *recordQueue {
	trigger := batchSize
	if limit > 0 && limit < trigger {
		trigger = limit
	}
	q := &recordQueue{
		active:  newBatch(batchSize * lineBufferSize / 2),
		trigger: trigger,
		limit:   limit,
		wake:    make(chan struct{}, 1),
	}
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// enqueue copies line into the active batch. In bounded mode it waits while
// the batch is full. Returns ErrShutdown once the queue is closed.
func (q *recordQueue) enqueue(line []byte, day int32) error {
	q.mu.Lock()
	for q.limit > 0 && q.active.count >= q.limit && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		q.mu.Unlock()
		return ErrShutdown
	}
	q.active.add(line, day)
	n := q.active.count
	q.mu.Unlock()

	if n >= q.trigger {
		q.signal()
	}
	return nil
}

// tryEnqueue is enqueue without waiting for room
func (q *recordQueue) tryEnqueue(line []byte, day int32) bool {
	q.mu.Lock()
	if q.closed || (q.limit > 0 && q.active.count >= q.limit) {
		q.mu.Unlock()
		return false
	}
	q.active.add(line, day)
	n := q.active.count
	q.mu.Unlock()

	if n >= q.trigger {
		q.signal()
	}
	return true
}

// swap installs empty as the active batch and returns the filled one
func (q *recordQueue) swap(empty *batch) *batch {
	q.mu.Lock()
	full := q.active
	q.active = empty
	if q.limit > 0 {
		q.notFull.Broadcast()
	}
	q.mu.Unlock()
	return full
}

// pending returns the number of records in the active batch
func (q *recordQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active.count
}

// close rejects further records and wakes the writer for the final drain
func (q *recordQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.notFull.Broadcast()
	q.mu.Unlock()
	q.signal()
}

func (q *recordQueue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// signal wakes the writer without blocking
func (q *recordQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
