package backend

import (
	"sync"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/record"
	"github.com/tracklet/tracklet/internal/transport"
)

// Sender is the façade the rest of the program uses to reach the worker.
// It owns the producer half of the record queue and routes acknowledgements
// arriving on the result queue back to waiting callers.
type Sender struct {
	records transport.Producer[*record.Record]
	results transport.Consumer[*record.Result]

	mu      sync.Mutex
	pending map[string]chan *record.Result
}

// NewSender builds a sender over the owner-side queue pair and starts the
// result router.
func NewSender(pair transport.Pair) *Sender {
	s := &Sender{
		records: pair.Records,
		results: pair.Results,
		pending: make(map[string]chan *record.Result),
	}
	go s.route()
	return s
}

// Publish appends a record to the record queue. It may block while the
// queue applies backpressure.
func (s *Sender) Publish(rec *record.Record) error {
	return s.records.Put(rec)
}

// Drain blocks until every record enqueued before it has been consumed by
// the worker.
func (s *Sender) Drain() error {
	return s.control(record.OpDrain)
}

// Join delivers a shutdown to the worker and blocks until the worker
// acknowledges that it has finished consuming. There is no timeout: a hung
// worker hangs Join.
func (s *Sender) Join() error {
	return s.control(record.OpShutdown)
}

// control enqueues a control record and waits for its acknowledgement.
func (s *Sender) control(op record.ControlOp) error {
	rec := record.NewControl(op)

	ch := make(chan *record.Result, 1)
	s.mu.Lock()
	s.pending[rec.ID] = ch
	s.mu.Unlock()

	if err := s.records.Put(rec); err != nil {
		s.mu.Lock()
		delete(s.pending, rec.ID)
		s.mu.Unlock()
		return err
	}

	res, ok := <-ch
	if !ok {
		// Result queue ended before the ack arrived; the worker exited or
		// crashed. Surface it the way a failed join would.
		return errors.New(errors.ErrTransport,
			"Worker went away before acknowledging "+string(op),
			"The worker may have crashed; check its logs")
	}
	if res.Err != "" {
		return errors.New(errors.ErrWorker, res.Err, "")
	}
	return nil
}

// route reads results until the queue closes, delivering each ack to its
// waiter. On close, all outstanding waiters are released with an error.
func (s *Sender) route() {
	for {
		res, err := s.results.Get()
		if err != nil {
			s.mu.Lock()
			for id, ch := range s.pending {
				close(ch)
				delete(s.pending, id)
			}
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		ch, ok := s.pending[res.RecordID]
		if ok {
			delete(s.pending, res.RecordID)
		}
		s.mu.Unlock()

		if ok {
			ch <- res
		}
	}
}
