// Package record defines the typed records shipped from the owning process
// to the worker and the results flowing back.
package record

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies what a record carries.
type Kind string

const (
	// KindRunStart opens a run.
	KindRunStart Kind = "run_start"
	// KindMetric carries a set of named numeric values.
	KindMetric Kind = "metric"
	// KindLog carries a line of console output.
	KindLog Kind = "log"
	// KindSummary carries final run values.
	KindSummary Kind = "summary"
	// KindControl carries a control operation instead of data.
	KindControl Kind = "control"
)

// ControlOp is a control operation delivered through the record queue.
type ControlOp string

const (
	// OpDrain asks the worker to acknowledge once all records enqueued
	// before it have been consumed.
	OpDrain ControlOp = "drain"
	// OpShutdown asks the worker to acknowledge and exit its loop.
	OpShutdown ControlOp = "shutdown"
)

// Record is one message on the record queue. Data fields are populated
// according to Kind; Control is set only for KindControl.
type Record struct {
	ID      string
	Kind    Kind
	Time    time.Time
	Values  map[string]float64
	Text    string
	Control ControlOp
}

// Result is one message on the result queue. RecordID names the control
// record being acknowledged.
type Result struct {
	RecordID string
	Err      string
}

// New creates a record of the given kind with a fresh ID and timestamp.
func New(kind Kind) *Record {
	return &Record{
		ID:   uuid.NewString(),
		Kind: kind,
		Time: time.Now(),
	}
}

// NewControl creates a control record for the given operation.
func NewControl(op ControlOp) *Record {
	rec := New(KindControl)
	rec.Control = op
	return rec
}

// Metric creates a metric record from a value map.
func Metric(values map[string]float64) *Record {
	rec := New(KindMetric)
	rec.Values = values
	return rec
}

// Log creates a log record from a line of output.
func Log(line string) *Record {
	rec := New(KindLog)
	rec.Text = line
	return rec
}
