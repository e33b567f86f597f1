package otel

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// queueSize bounds the number of events waiting for the writer.
const queueSize = 1024

// Logger appends events to a JSONL sink from one writer goroutine.
// Emit never blocks: an event that cannot be queued is counted in Dropped.
// Safe for concurrent use.
type Logger struct {
	sessionID string
	queue     chan Event
	done      chan struct{}

	// mu orders sends against Close so nothing is sent on a closed queue.
	mu     sync.RWMutex
	closed bool

	ring    atomic.Pointer[RingBuffer]
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewLogger creates a Logger writing to w. Call Close to flush.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{
		sessionID: uuid.NewString(),
		queue:     make(chan Event, queueSize),
		done:      make(chan struct{}),
	}
	go l.write(w)
	return l
}

// NewNullLogger creates a Logger that discards output.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

// SessionID returns the ID stamped on every event from this logger.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// write encodes queued events until the queue is closed. Output is
// flushed whenever the backlog empties so `tvr events -f` keeps up.
func (l *Logger) write(w io.Writer) {
	defer close(l.done)

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for e := range l.queue {
		if err := enc.Encode(e); err != nil {
			l.failed.Add(1)
		}
		if rb := l.ring.Load(); rb != nil {
			rb.Push(e)
		}
		if len(l.queue) == 0 {
			if err := bw.Flush(); err != nil {
				l.failed.Add(1)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		l.failed.Add(1)
	}
}

// Emit stamps e with the session ID (and the current time when unset)
// and queues it.
func (l *Logger) Emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.dropped.Add(1)
		return
	}
	select {
	case l.queue <- e:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, comp string, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event.
func (l *Logger) Warn(kind EventKind, comp string, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event. A nil err is logged as "".
func (l *Logger) Error(kind EventKind, comp string, err error) {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: msg})
}

// SetRingBuffer mirrors every written event into buf. Pass nil to detach.
func (l *Logger) SetRingBuffer(buf *RingBuffer) {
	l.ring.Store(buf)
}

// Dropped returns how many events never reached the queue.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Failed returns how many queued events could not be encoded or written.
func (l *Logger) Failed() uint64 {
	return l.failed.Load()
}

// Close flushes queued events and stops the writer. It is safe to call
// more than once.
func (l *Logger) Close() {
	l.mu.Lock()
	first := !l.closed
	if first {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()
	<-l.done

	dropped, failed := l.Dropped(), l.Failed()
	if first && dropped+failed > 0 {
		fmt.Fprintf(os.Stderr, "tvratings: session %s lost %d events (%d dropped, %d unwritten)\n",
			l.sessionID, dropped+failed, dropped, failed)
	}
}
