// Package stats samples accelerator device metrics for a run. The vendor
// query itself sits behind the DeviceQuery interface; this package owns
// buffering, metric normalization, and aggregation. Sampling never
// propagates failures: each Sample returns a typed error for the caller to
// log at its own rate, and a missing device backend surfaces once, at
// construction.
package stats

import (
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// ErrUnavailable is returned by NewSampler when no device backend exists on
// this machine.
var ErrUnavailable = stderrors.New("stats: no device backend available")

// DeviceQuery is the capability a vendor backend must provide: one
// observation of every visible device as key/value string pairs.
type DeviceQuery interface {
	Devices() ([]map[string]string, error)
}

// ErrorKind classifies sampling failures.
type ErrorKind string

const (
	// DeviceQueryError means the vendor backend failed to report devices.
	DeviceQueryError ErrorKind = "device_query"
	// ParseError means a device reported values that did not parse.
	ParseError ErrorKind = "parse"
)

// SampleError is the typed, non-fatal result of a failed Sample call.
type SampleError struct {
	Kind ErrorKind
	Err  error
}

func (e *SampleError) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

// variableMetricKeys are the metrics that change over time. After a
// device's first observation, only these are kept, so static device
// attributes are not re-reported on every sample.
var variableMetricKeys = map[string]bool{
	"average board temp":    true,
	"average die temp":      true,
	"clock":                 true,
	"power":                 true,
	"utilisation":           true,
	"utilisation (session)": true,
}

// metricSuffixes maps metric name endings to the unit suffix their values
// carry. A value ending in the unit is stripped and the unit folded into
// the key: "clock" / "1330MHz" becomes "clock (MHz)" / 1330.
var metricSuffixes = []struct {
	metric string
	suffix string
}{
	{"temp", "C"},
	{"clock", "MHz"},
	{"power", "W"},
	{"utilisation (session)", "%"},
	{"utilisation", "%"},
	{"speed", "GT/s"},
}

// Sampler buffers device observations and aggregates them on Serialize.
// Safe for a sampling goroutine and a serializing caller to share.
type Sampler struct {
	mu      sync.Mutex
	query   DeviceQuery
	samples []map[string]float64
	seen    map[string]bool
}

// NewSampler creates a sampler over the given query backend. A nil query
// means no backend is present and returns ErrUnavailable, so callers learn
// about a missing vendor library before sampling starts, not during.
func NewSampler(query DeviceQuery) (*Sampler, error) {
	if query == nil {
		return nil, ErrUnavailable
	}
	return &Sampler{
		query: query,
		seen:  make(map[string]bool),
	}, nil
}

var (
	defaultQueryMu sync.Mutex
	defaultQuery   DeviceQuery
)

// SetDefaultQuery installs the device backend for this machine. Vendor
// integrations call this from an init function in their own package;
// passing nil removes the backend.
func SetDefaultQuery(q DeviceQuery) {
	defaultQueryMu.Lock()
	defer defaultQueryMu.Unlock()
	defaultQuery = q
}

// DefaultQuery returns the installed device backend, or nil when none has
// been registered. The worker and the monitor treat nil as "device stats
// unavailable".
func DefaultQuery() DeviceQuery {
	defaultQueryMu.Lock()
	defer defaultQueryMu.Unlock()
	return defaultQuery
}

// Sample captures one observation of every visible device and appends it to
// the buffer. It never panics and never returns a fatal error; failures
// come back as a typed SampleError for the caller to log.
func (s *Sampler) Sample() *SampleError {
	devices, err := s.query.Devices()
	if err != nil {
		return &SampleError{Kind: DeviceQueryError, Err: err}
	}

	sample := make(map[string]float64)
	var parseErr error

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, device := range devices {
		id := device["id"]
		initial := !s.seen[id]
		s.seen[id] = true

		for key, value := range device {
			if key == "id" {
				continue
			}
			if !initial && !variableMetricKeys[key] {
				continue
			}
			name, num, ok := parseMetric(key, value)
			if !ok {
				if parseErr == nil && variableMetricKeys[key] {
					parseErr = fmt.Errorf("device %q reported unparseable %s=%q", id, key, value)
				}
				continue
			}
			sample["dev."+id+"."+name] = num
		}
	}

	s.samples = append(s.samples, sample)
	if parseErr != nil {
		return &SampleError{Kind: ParseError, Err: parseErr}
	}
	return nil
}

// Append adds an already-parsed sample directly. Used by collaborators that
// obtain observations out of band.
func (s *Sampler) Append(sample map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
}

// Latest returns a copy of the most recent buffered sample, or nil when
// nothing has been sampled yet.
func (s *Sampler) Latest() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return nil
	}
	last := s.samples[len(s.samples)-1]
	out := make(map[string]float64, len(last))
	for k, v := range last {
		out[k] = v
	}
	return out
}

// Clear discards all buffered samples.
func (s *Sampler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = nil
}

// Serialize aggregates the buffered samples into one value per metric: the
// arithmetic mean rounded to 2 decimals, keyed by metric name. Metrics are
// keyed off the first sample; an empty buffer yields an empty map.
func (s *Sampler) Serialize() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]float64)
	if len(s.samples) == 0 {
		return out
	}

	for key := range s.samples[0] {
		var sum float64
		var n int
		for _, sample := range s.samples {
			if v, ok := sample[key]; ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			out[key] = math.Round(sum/float64(n)*100) / 100
		}
	}
	return out
}

// parseMetric normalizes one key/value pair: unit suffixes move from the
// value into the key, and non-numeric values are dropped.
func parseMetric(key, value string) (string, float64, bool) {
	for _, ms := range metricSuffixes {
		if strings.HasSuffix(key, ms.metric) && strings.HasSuffix(value, ms.suffix) {
			value = strings.TrimSuffix(value, ms.suffix)
			key = key + " (" + ms.suffix + ")"
			break
		}
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", 0, false
	}
	return key, num, true
}
