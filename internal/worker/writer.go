package worker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/record"
	"github.com/tracklet/tracklet/internal/settings"
)

// runWriter persists records as JSON lines and accumulates the run summary.
// One writer per run; not safe for concurrent use, which matches the
// single-consumer discipline of the record queue.
type runWriter struct {
	dir     string
	runID   string
	file    *os.File
	enc     *json.Encoder
	summary map[string]float64
	started time.Time
}

// recordLine is the on-disk shape of one record.
type recordLine struct {
	Kind   string             `json:"kind"`
	Time   time.Time          `json:"time"`
	Values map[string]float64 `json:"values,omitempty"`
	Text   string             `json:"text,omitempty"`
}

// runSummary is the on-disk shape of the summary file.
type runSummary struct {
	RunID    string             `json:"run_id"`
	Started  time.Time          `json:"started"`
	Finished time.Time          `json:"finished"`
	Values   map[string]float64 `json:"values"`
}

func newRunWriter(set settings.Settings) (*runWriter, error) {
	dir := set.RunDir
	if dir == "" {
		dir = ".tracklet"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrWorker,
			"Cannot create the run directory",
			"Check permissions on "+dir)
	}

	path := filepath.Join(dir, set.RunID+".jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrWorker,
			"Cannot open the run record log",
			"Check permissions on "+path)
	}

	return &runWriter{
		dir:     dir,
		runID:   set.RunID,
		file:    file,
		enc:     json.NewEncoder(file),
		summary: make(map[string]float64),
		started: time.Now(),
	}, nil
}

// Write appends one record to the log. Metric and summary values also fold
// into the running summary, last value wins.
func (w *runWriter) Write(rec *record.Record) error {
	line := recordLine{
		Kind:   string(rec.Kind),
		Time:   rec.Time,
		Values: rec.Values,
		Text:   rec.Text,
	}
	if err := w.enc.Encode(&line); err != nil {
		return err
	}

	if rec.Kind == record.KindMetric || rec.Kind == record.KindSummary {
		for k, v := range rec.Values {
			w.summary[k] = v
		}
	}
	return nil
}

// SetSummary sets one summary value directly, bypassing the record log.
func (w *runWriter) SetSummary(key string, value float64) {
	w.summary[key] = value
}

// Finish writes the summary file. Safe to call more than once; only the
// first call writes.
func (w *runWriter) Finish() error {
	if w.summary == nil {
		return nil
	}
	out := runSummary{
		RunID:    w.runID,
		Started:  w.started,
		Finished: time.Now(),
		Values:   w.summary,
	}
	w.summary = nil

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(w.dir, w.runID+"-summary.json")
	return os.WriteFile(path, data, 0o644)
}

// Close closes the record log file.
func (w *runWriter) Close() error {
	return w.file.Close()
}
