package transport

import "sync"

// DefaultQueueSize bounds the channel-backed queue. Put blocks once this
// many records are in flight, which is the backpressure behavior thread
// mode inherits.
const DefaultQueueSize = 512

// ChanQueue is a channel-backed queue used in thread mode, where the owner
// and worker share an address space. It implements both Producer and
// Consumer. After Close, Get drains whatever is still buffered before
// reporting ErrClosed; Put fails immediately.
type ChanQueue[T any] struct {
	mu     sync.Mutex
	ch     chan T
	done   chan struct{}
	closed bool
}

// NewChanQueue creates a queue with the given buffer size.
// Size <= 0 uses DefaultQueueSize.
func NewChanQueue[T any](size int) *ChanQueue[T] {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &ChanQueue[T]{
		ch:   make(chan T, size),
		done: make(chan struct{}),
	}
}

// Put appends v, blocking while the buffer is full. The buffered send
// happens under the same lock Close takes, so once Close has returned
// every subsequent Put reports ErrClosed even while the buffer has room.
func (q *ChanQueue[T]) Put(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	select {
	case q.ch <- v:
		q.mu.Unlock()
		return nil
	default:
	}
	q.mu.Unlock()

	// Buffer full: wait for the consumer or for Close.
	select {
	case q.ch <- v:
		return nil
	case <-q.done:
		return ErrClosed
	}
}

// Get blocks until a value arrives. After Close it keeps returning buffered
// values until the queue is drained, then ErrClosed.
func (q *ChanQueue[T]) Get() (T, error) {
	select {
	case v := <-q.ch:
		return v, nil
	case <-q.done:
		select {
		case v := <-q.ch:
			return v, nil
		default:
			var zero T
			return zero, ErrClosed
		}
	}
}

// Close marks the queue closed and unblocks pending Put/Get calls.
func (q *ChanQueue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.closed = true
	close(q.done)
	return nil
}
