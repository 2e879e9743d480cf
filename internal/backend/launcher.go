package backend

import (
	"encoding/json"
	"os"
	"os/exec"
	"sync"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/record"
	"github.com/tracklet/tracklet/internal/settings"
	"github.com/tracklet/tracklet/internal/spawn"
	"github.com/tracklet/tracklet/internal/transport"
)

// Target is the worker entry invoked in thread mode: settings, record
// queue, result queue.
type Target func(set settings.Settings, recordQ transport.Consumer[*record.Record], resultQ transport.Producer[*record.Result]) error

// workerProc abstracts over the two run modes so the handle's lifecycle
// code does not care whether the worker is a process or a goroutine.
type workerProc interface {
	// Start launches the worker.
	Start() error
	// Pid returns the OS process id, or 0 for thread mode.
	Pid() int
	// Terminate hard-stops the worker with no grace period.
	Terminate() error
	// Wait blocks until the worker exits.
	Wait() error
}

// processWorker runs the worker as a re-invoked copy of this binary.
// Records go out over the child's stdin, results come back on its stdout.
type processWorker struct {
	cmd   *exec.Cmd
	entry string
}

// newProcessWorker builds the child command and the owner-side queue pair
// over its pipes. Nothing is started yet.
func newProcessWorker(sctx spawn.Context, set settings.Settings) (*processWorker, transport.Pair, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return nil, transport.Pair{}, errors.WrapWithCode(err, errors.ErrSpawn,
			"Cannot serialize settings for the worker",
			"Settings handed to the worker must be serializable")
	}

	cmd := sctx.Command()
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, transport.Pair{}, errors.WrapWithCode(err, errors.ErrSpawn,
			"Cannot allocate the record queue pipe", "")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, transport.Pair{}, errors.WrapWithCode(err, errors.ErrSpawn,
			"Cannot allocate the result queue pipe", "")
	}

	pair := transport.Pair{
		Records: transport.NewStreamProducer[*record.Record](stdin),
		Results: transport.NewStreamConsumer[*record.Result](stdout),
	}
	return &processWorker{cmd: cmd, entry: string(payload)}, pair, nil
}

func (p *processWorker) Start() error {
	// The entry mark routes the child into the worker loop; it must not
	// outlive the start call in this process.
	err := spawn.WithEntryMark(p.entry, p.cmd.Start)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSpawn,
			"Cannot start the worker process",
			"Check that the tracklet binary can be executed")
	}
	return nil
}

func (p *processWorker) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *processWorker) Terminate() error {
	if p.cmd.Process == nil {
		return nil
	}
	// Kill is best effort; a worker that already exited is fine.
	_ = p.cmd.Process.Kill()
	return nil
}

func (p *processWorker) Wait() error {
	return p.cmd.Wait()
}

// threadWorker runs the worker target as a daemon goroutine in this
// process. There is no pid and no hard kill; Terminate closes the record
// queue, which winds the loop down.
type threadWorker struct {
	target  Target
	set     settings.Settings
	recordQ transport.Consumer[*record.Record]
	resultQ transport.Producer[*record.Result]

	done     chan struct{}
	killOnce sync.Once
	err      error
}

func newThreadWorker(target Target, set settings.Settings, recordQ transport.Consumer[*record.Record], resultQ transport.Producer[*record.Result]) *threadWorker {
	return &threadWorker{
		target:  target,
		set:     set,
		recordQ: recordQ,
		resultQ: resultQ,
		done:    make(chan struct{}),
	}
}

func (t *threadWorker) Start() error {
	go func() {
		defer close(t.done)
		t.err = t.target(t.set, t.recordQ, t.resultQ)
	}()
	return nil
}

func (t *threadWorker) Pid() int { return 0 }

func (t *threadWorker) Terminate() error {
	t.killOnce.Do(func() {
		_ = t.recordQ.Close()
	})
	return nil
}

func (t *threadWorker) Wait() error {
	<-t.done
	return t.err
}
