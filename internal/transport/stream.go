package transport

import (
	"encoding/gob"
	"errors"
	"io"
	"sync"
)

// StreamProducer encodes values as gob frames onto a write stream, typically
// the stdin pipe of a worker process. Safe for multiple goroutines; frames
// stay ordered because the encoder is serialized under the mutex.
type StreamProducer[T any] struct {
	mu     sync.Mutex
	enc    *gob.Encoder
	w      io.WriteCloser
	closed bool
}

// NewStreamProducer wraps w in a gob-encoding producer.
func NewStreamProducer[T any](w io.WriteCloser) *StreamProducer[T] {
	return &StreamProducer[T]{
		enc: gob.NewEncoder(w),
		w:   w,
	}
}

// Put encodes v onto the stream.
func (p *StreamProducer[T]) Put(v T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.enc.Encode(&v)
}

// Close closes the underlying stream. The consumer on the other side
// observes end of stream and reports ErrClosed.
func (p *StreamProducer[T]) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	return p.w.Close()
}

// StreamConsumer decodes gob frames from a read stream, typically the
// stdout pipe of a worker process or the worker's own stdin. Single
// consumer only.
type StreamConsumer[T any] struct {
	mu     sync.Mutex
	dec    *gob.Decoder
	r      io.ReadCloser
	closed bool
}

// NewStreamConsumer wraps r in a gob-decoding consumer.
func NewStreamConsumer[T any](r io.ReadCloser) *StreamConsumer[T] {
	return &StreamConsumer[T]{
		dec: gob.NewDecoder(r),
		r:   r,
	}
}

// Get blocks until the next frame decodes. End of stream and reads after
// Close report ErrClosed.
func (c *StreamConsumer[T]) Get() (T, error) {
	var v T
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return v, ErrClosed
	}
	if err := c.dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
			return v, ErrClosed
		}
		return v, err
	}
	return v, nil
}

// Close closes the underlying stream.
func (c *StreamConsumer[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	return c.r.Close()
}
