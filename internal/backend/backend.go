// Package backend launches and owns the detached worker that consumes run
// records. The worker runs either as a separate OS process (a re-invoked
// copy of this binary) or as a daemon goroutine, connected through an
// ordered record queue flowing in and a result queue flowing out. The
// handle guarantees teardown happens exactly once, in a fixed order, no
// matter how many times or from how many goroutines Abort and Cleanup are
// called.
package backend

import (
	"sync/atomic"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/logger"
	"github.com/tracklet/tracklet/internal/record"
	"github.com/tracklet/tracklet/internal/settings"
	"github.com/tracklet/tracklet/internal/spawn"
	"github.com/tracklet/tracklet/internal/transport"
	"github.com/tracklet/tracklet/internal/worker"
)

// Backend owns the worker and its queue pair for one run.
//
// Lifecycle: unstarted → launched (EnsureLaunched) → done (Cleanup or
// Abort). The done transition is one-way and idempotent; once it has
// happened the handle is spent and EnsureLaunched refuses. A second
// EnsureLaunched on a live handle creates a second, independent worker;
// guarding against double launch is the caller's responsibility.
type Backend struct {
	session settings.Settings
	log     logger.Logger

	done   atomic.Bool
	proc   workerProc
	pair   transport.Pair
	sender *Sender
	pid    int

	// target is the thread-mode worker entry; overridable in tests.
	target Target
}

// New creates a backend handle for the given session settings. The logger
// is an explicit dependency: the handle never reaches for global state.
func New(session settings.Settings, log logger.Logger) *Backend {
	if log == nil {
		log = logger.NewEnvLogger("[backend]")
	}
	return &Backend{
		session: session,
		log:     log,
		target:  worker.Run,
	}
}

// EnsureLaunched starts the worker and connects the queue pair.
//
// Failures propagate unmodified and leave nothing registered as launched:
// a half-constructed worker cannot be retried safely, so the caller decides
// what to do.
func (b *Backend) EnsureLaunched() error {
	if b.done.Load() {
		return errors.New(errors.ErrSpawn,
			"This backend handle has already been torn down",
			"Create a new backend for the next run")
	}

	clean := b.session.Sanitize()

	var proc workerProc
	var pair transport.Pair

	if clean.ThreadMode() {
		recordQ := transport.NewChanQueue[*record.Record](0)
		resultQ := transport.NewChanQueue[*record.Result](0)
		proc = newThreadWorker(b.target, clean, recordQ, resultQ)
		pair = transport.Pair{Records: recordQ, Results: resultQ}
	} else {
		sctx, err := spawn.Resolve()
		if err != nil {
			return err
		}
		var perr error
		proc, pair, perr = newProcessWorker(sctx, clean)
		if perr != nil {
			return perr
		}
	}

	b.log.Debug("starting worker, mode=%s", clean.StartMode)
	if err := proc.Start(); err != nil {
		_ = pair.Close()
		return err
	}

	b.proc = proc
	b.pair = pair
	b.pid = proc.Pid()
	b.sender = NewSender(pair)
	b.log.Debug("started worker, pid=%d", b.pid)
	return nil
}

// Sender returns the sender façade, nil before EnsureLaunched.
func (b *Backend) Sender() *Sender {
	return b.sender
}

// Pid returns the worker's process id, 0 for thread mode or before launch.
func (b *Backend) Pid() int {
	return b.pid
}

// Done reports whether teardown has completed or begun.
func (b *Backend) Done() bool {
	return b.done.Load()
}

// Abort hard-stops the worker with no grace period, then runs Cleanup.
// Intended for fatal-error fast paths where waiting for a drain is not
// wanted. Safe to call repeatedly.
func (b *Backend) Abort() {
	if b.proc != nil {
		_ = b.proc.Terminate()
	}
	b.Cleanup()
}

// Cleanup tears the backend down exactly once: join the sender (drain
// in-flight records and collect the worker's acknowledgement), join the
// worker, then close the record and result queues. The swap on the done
// flag makes concurrent and repeated calls no-ops. No logging may happen
// between the swap and the queue close; the output machinery can depend on
// paths this function is tearing down.
func (b *Backend) Cleanup() {
	if !b.done.CompareAndSwap(false, true) {
		return
	}
	if b.proc == nil {
		return
	}
	_ = b.sender.Join()
	_ = b.proc.Wait()
	_ = b.pair.Close()
}
