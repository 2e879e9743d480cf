// Package transport provides the ordered, process-safe queue pair connecting
// the owning process to its worker: a record queue flowing in and a result
// queue flowing out. Thread mode uses buffered channels; process mode uses
// gob-encoded frames over the child's stdin/stdout pipes. Each direction has
// a single consumer, so no locking beyond the queue's own is needed.
package transport

import "errors"

// ErrClosed is returned when a queue is used after Close, and by Close
// itself when called twice. Closing a queue twice is a teardown bug; the
// backend's done flag exists to prevent it.
var ErrClosed = errors.New("transport: queue closed")

// Producer is the sending half of a queue.
type Producer[T any] interface {
	// Put appends v to the queue, blocking if the queue is full.
	Put(v T) error
	// Close closes the sending half. Further Puts return ErrClosed.
	Close() error
}

// Consumer is the receiving half of a queue.
type Consumer[T any] interface {
	// Get blocks until a value is available or the queue is closed and
	// drained, in which case it returns ErrClosed.
	Get() (T, error)
	// Close closes the receiving half.
	Close() error
}
