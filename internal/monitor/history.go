package monitor

import "sync"

// DefaultHistorySize is the default number of data points to retain per metric.
const DefaultHistorySize = 60

// History manages per-metric sample history using ring buffers.
// It provides thread-safe access to historical data for sparkline rendering.
type History struct {
	mu      sync.RWMutex
	size    int
	metrics map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a new history tracker with the specified buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		metrics: make(map[string]*ringBuffer),
	}
}

// Push adds one sample's worth of metric values.
func (h *History) Push(sample map[string]float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for name, value := range sample {
		buf, ok := h.metrics[name]
		if !ok {
			buf = newRingBuffer(h.size)
			h.metrics[name] = buf
		}
		buf.push(value)
	}
}

// Get returns the last count values for a metric in chronological order
// (oldest first). Returns fewer values if not enough history is available.
func (h *History) Get(name string, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.metrics[name]
	if !ok {
		return nil
	}
	return buf.getLast(count)
}

// Count returns the number of data points stored for a metric.
func (h *History) Count(name string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.metrics[name]
	if !ok {
		return 0
	}
	return buf.count
}

// Clear removes all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics = make(map[string]*ringBuffer)
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head points to the next write position, so the most recent value is
	// at head-1; we want count values ending there.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
