// Package worker implements the record consumer that runs detached from the
// owning program, either as a daemon goroutine or as a re-invoked copy of
// the tracklet binary. It drains the record queue in order, persists data
// records to the run directory, and acknowledges control records on the
// result queue.
package worker

import (
	stderrors "errors"
	"time"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/logger"
	"github.com/tracklet/tracklet/internal/record"
	"github.com/tracklet/tracklet/internal/settings"
	"github.com/tracklet/tracklet/internal/stats"
	"github.com/tracklet/tracklet/internal/transport"
)

// Run is the worker entry point. It consumes records until a shutdown
// control record arrives or the record queue is closed, then flushes the
// run summary. This signature is the ABI between the backend and the
// worker: settings, record queue, result queue.
func Run(set settings.Settings, recordQ transport.Consumer[*record.Record], resultQ transport.Producer[*record.Result]) error {
	log := logger.NewEnvLogger("[worker]")
	log.Debug("worker started, run %s", set.RunID)

	writer, err := newRunWriter(set)
	if err != nil {
		return err
	}
	defer writer.Close()

	sampling := startSampling(set, log)

	for {
		rec, err := recordQ.Get()
		if err != nil {
			if stderrors.Is(err, transport.ErrClosed) {
				// Owner went away without a shutdown handshake. Flush what
				// we have and exit quietly.
				sampling.stop(writer)
				return writer.Finish()
			}
			sampling.stop(writer)
			if ferr := writer.Finish(); ferr != nil {
				log.Warn("failed to finalize run: %v", ferr)
			}
			return errors.WrapWithCode(err, errors.ErrWorker,
				"Worker failed to read from the record queue",
				"")
		}

		if rec.Kind == record.KindControl {
			shutdown := rec.Control == record.OpShutdown
			if shutdown {
				sampling.stop(writer)
				if err := writer.Finish(); err != nil {
					log.Warn("failed to finalize run: %v", err)
				}
			}
			if err := resultQ.Put(&record.Result{RecordID: rec.ID}); err != nil {
				return errors.WrapWithCode(err, errors.ErrWorker,
					"Worker failed to acknowledge a control record",
					"")
			}
			if shutdown {
				log.Debug("worker shutting down, run %s", set.RunID)
				return nil
			}
			continue
		}

		if err := writer.Write(rec); err != nil {
			// A bad record must not stall the queue.
			log.Warn("dropping record %s: %v", rec.ID, err)
		}
	}
}

// sampling runs the device stats sampler on a ticker for the lifetime of
// the worker. Sampler errors never propagate; the first one per kind is
// logged as a warning and the rest are suppressed.
type samplingLoop struct {
	sampler *stats.Sampler
	ticker  *time.Ticker
	done    chan struct{}
	stopped chan struct{}
}

func startSampling(set settings.Settings, log logger.Logger) *samplingLoop {
	if set.StatsInterval <= 0 {
		return &samplingLoop{}
	}

	sampler, err := stats.NewSampler(stats.DefaultQuery())
	if err != nil {
		// No device backend present; a construction-time signal, not a
		// runtime failure.
		log.Debug("device stats unavailable: %v", err)
		return &samplingLoop{}
	}

	loop := &samplingLoop{
		sampler: sampler,
		ticker:  time.NewTicker(time.Duration(set.StatsInterval) * time.Second),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(loop.stopped)
		warned := map[stats.ErrorKind]bool{}
		sample := func() {
			if serr := loop.sampler.Sample(); serr != nil && !warned[serr.Kind] {
				warned[serr.Kind] = true
				log.Warn("device stats error (%s): %v", serr.Kind, serr.Err)
			}
		}
		// One sample up front so static device attributes make it into
		// the summary even when the run ends before the first tick.
		sample()
		for {
			select {
			case <-loop.ticker.C:
				sample()
			case <-loop.done:
				return
			}
		}
	}()

	return loop
}

// stop halts sampling and folds aggregated device stats into the summary.
func (s *samplingLoop) stop(writer *runWriter) {
	if s.sampler == nil {
		return
	}
	s.ticker.Stop()
	close(s.done)
	<-s.stopped

	for key, value := range s.sampler.Serialize() {
		writer.SetSummary("system/"+key, value)
	}
	s.sampler.Clear()
	s.sampler = nil
}
