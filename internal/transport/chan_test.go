package transport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChanQueue_Ordering(t *testing.T) {
	q := NewChanQueue[int](8)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Put(i))
	}

	for i := 0; i < 5; i++ {
		v, err := q.Get()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestChanQueue_PutAfterClose(t *testing.T) {
	q := NewChanQueue[int](8)
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Put(1), ErrClosed)
}

func TestChanQueue_PutAfterCloseWithBufferRoom(t *testing.T) {
	// Even when the buffer could still accept values, a Put that starts
	// after Close has returned must fail. Race Close against a stream of
	// Puts and check that nothing is accepted once Close completes.
	for i := 0; i < 200; i++ {
		q := NewChanQueue[int](8)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; ; j++ {
				if q.Put(j) != nil {
					return
				}
			}
		}()

		require.NoError(t, q.Close())
		assert.ErrorIs(t, q.Put(-1), ErrClosed)
		wg.Wait()
	}
}

func TestChanQueue_GetDrainsAfterClose(t *testing.T) {
	q := NewChanQueue[string](8)
	require.NoError(t, q.Put("one"))
	require.NoError(t, q.Put("two"))
	require.NoError(t, q.Close())

	v, err := q.Get()
	require.NoError(t, err)
	assert.Equal(t, "one", v)

	v, err = q.Get()
	require.NoError(t, err)
	assert.Equal(t, "two", v)

	_, err = q.Get()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestChanQueue_DoubleCloseIsError(t *testing.T) {
	q := NewChanQueue[int](1)
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Close(), ErrClosed)
}

func TestChanQueue_CloseUnblocksGet(t *testing.T) {
	q := NewChanQueue[int](1)

	var wg sync.WaitGroup
	wg.Add(1)
	var gotErr error
	go func() {
		defer wg.Done()
		_, gotErr = q.Get()
	}()

	require.NoError(t, q.Close())
	wg.Wait()

	assert.ErrorIs(t, gotErr, ErrClosed)
}

func TestChanQueue_ConcurrentProducers(t *testing.T) {
	q := NewChanQueue[int](DefaultQueueSize)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < n; j++ {
				require.NoError(t, q.Put(base+j))
			}
		}(i * n)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for i := 0; i < 4*n; i++ {
		v, err := q.Get()
		require.NoError(t, err)
		assert.False(t, seen[v], "duplicate value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, 4*n)
}
