package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_PushAndGet(t *testing.T) {
	h := NewHistory(4)

	h.Push(map[string]float64{"cpu (%)": 10})
	h.Push(map[string]float64{"cpu (%)": 20})
	h.Push(map[string]float64{"cpu (%)": 30})

	assert.Equal(t, []float64{10, 20, 30}, h.Get("cpu (%)", 10))
	assert.Equal(t, []float64{20, 30}, h.Get("cpu (%)", 2))
	assert.Equal(t, 3, h.Count("cpu (%)"))
}

func TestHistory_RingWraps(t *testing.T) {
	h := NewHistory(3)

	for i := 1; i <= 5; i++ {
		h.Push(map[string]float64{"m": float64(i)})
	}

	assert.Equal(t, []float64{3, 4, 5}, h.Get("m", 10))
	assert.Equal(t, 3, h.Count("m"))
}

func TestHistory_UnknownMetric(t *testing.T) {
	h := NewHistory(4)
	assert.Nil(t, h.Get("missing", 5))
	assert.Zero(t, h.Count("missing"))
}

func TestHistory_IndependentMetrics(t *testing.T) {
	h := NewHistory(4)

	h.Push(map[string]float64{"a": 1, "b": 100})
	h.Push(map[string]float64{"a": 2})

	assert.Equal(t, []float64{1, 2}, h.Get("a", 10))
	assert.Equal(t, []float64{100}, h.Get("b", 10))
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(4)
	h.Push(map[string]float64{"a": 1})
	h.Clear()
	assert.Nil(t, h.Get("a", 10))
}

func TestHistory_DefaultSize(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultHistorySize, h.size)
}
