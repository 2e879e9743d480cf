package backend

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/logger"
	"github.com/tracklet/tracklet/internal/record"
	"github.com/tracklet/tracklet/internal/settings"
	"github.com/tracklet/tracklet/internal/spawn"
	"github.com/tracklet/tracklet/internal/transport"
	"github.com/tracklet/tracklet/internal/worker"
)

// markers collects ordered event names from instrumented fakes.
type markers struct {
	mu     sync.Mutex
	events []string
}

func (m *markers) add(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *markers) index(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.events {
		if e == event {
			return i
		}
	}
	return -1
}

func (m *markers) count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e == event {
			n++
		}
	}
	return n
}

// markProducer instruments a record producer's Close.
type markProducer struct {
	inner transport.Producer[*record.Record]
	marks *markers
}

func (p *markProducer) Put(rec *record.Record) error { return p.inner.Put(rec) }
func (p *markProducer) Close() error {
	p.marks.add("records_close")
	return p.inner.Close()
}

// markConsumer instruments a result consumer's Close.
type markConsumer struct {
	inner transport.Consumer[*record.Result]
	marks *markers
}

func (c *markConsumer) Get() (*record.Result, error) { return c.inner.Get() }
func (c *markConsumer) Close() error {
	c.marks.add("results_close")
	return c.inner.Close()
}

// fakeProc pairs with a fake worker goroutine that acks control records.
type fakeProc struct {
	marks  *markers
	exited chan struct{}
}

func (f *fakeProc) Start() error { return nil }
func (f *fakeProc) Pid() int     { return 4242 }
func (f *fakeProc) Terminate() error {
	f.marks.add("terminate")
	return nil
}
func (f *fakeProc) Wait() error {
	<-f.exited
	f.marks.add("worker_join")
	return nil
}

// instrumentedBackend wires a Backend to fake queues and an acking fake
// worker, returning the shared marker log.
func instrumentedBackend(t *testing.T) (*Backend, *markers) {
	t.Helper()
	marks := &markers{}

	recordQ := transport.NewChanQueue[*record.Record](0)
	resultQ := transport.NewChanQueue[*record.Result](0)

	proc := &fakeProc{marks: marks, exited: make(chan struct{})}
	go func() {
		defer close(proc.exited)
		for {
			rec, err := recordQ.Get()
			if err != nil {
				return
			}
			if rec.Kind != record.KindControl {
				continue
			}
			marks.add("worker_saw_" + string(rec.Control))
			if resultQ.Put(&record.Result{RecordID: rec.ID}) != nil {
				return
			}
			if rec.Control == record.OpShutdown {
				return
			}
		}
	}()

	pair := transport.Pair{
		Records: &markProducer{inner: recordQ, marks: marks},
		Results: &markConsumer{inner: resultQ, marks: marks},
	}

	b := New(settings.Default(), logger.Noop())
	b.proc = proc
	b.pair = pair
	b.pid = proc.Pid()
	b.sender = NewSender(pair)
	return b, marks
}

func TestCleanup_Ordering(t *testing.T) {
	b, marks := instrumentedBackend(t)

	b.Cleanup()

	shutdown := marks.index("worker_saw_shutdown")
	join := marks.index("worker_join")
	recClose := marks.index("records_close")
	resClose := marks.index("results_close")

	require.NotEqual(t, -1, shutdown, "worker never saw the shutdown control")
	require.NotEqual(t, -1, join)
	require.NotEqual(t, -1, recClose)
	require.NotEqual(t, -1, resClose)

	assert.Less(t, shutdown, join, "sender join must precede worker join")
	assert.Less(t, join, recClose, "worker join must precede queue close")
	assert.Less(t, recClose, resClose, "record queue closes before result queue")
}

func TestCleanup_IdempotentAcrossRepeatsAndAbort(t *testing.T) {
	b, marks := instrumentedBackend(t)

	b.Cleanup()
	b.Cleanup()
	b.Abort()
	b.Cleanup()

	assert.Equal(t, 1, marks.count("records_close"), "record queue closed more than once")
	assert.Equal(t, 1, marks.count("results_close"), "result queue closed more than once")
	assert.True(t, b.Done())
}

func TestCleanup_ConcurrentCallsCloseOnce(t *testing.T) {
	b, marks := instrumentedBackend(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				b.Cleanup()
			} else {
				b.Abort()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, marks.count("records_close"))
	assert.Equal(t, 1, marks.count("results_close"))
}

func TestAbort_TerminatesThenCleansUp(t *testing.T) {
	b, marks := instrumentedBackend(t)

	b.Abort()

	assert.NotEqual(t, -1, marks.index("terminate"))
	assert.Less(t, marks.index("terminate"), marks.index("records_close"))
	assert.True(t, b.Done())
}

func TestCleanup_BeforeLaunchIsNoop(t *testing.T) {
	b := New(settings.Default(), logger.Noop())

	b.Cleanup()
	b.Abort()

	assert.True(t, b.Done())
}

func TestEnsureLaunched_RefusesAfterCleanup(t *testing.T) {
	set := settings.Default()
	set.StartMode = settings.StartThread
	set.RunDir = t.TempDir()

	b := New(set, logger.Noop())
	b.Cleanup()

	// A spent handle must not start a worker it can never tear down.
	err := b.EnsureLaunched()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSpawn))
	assert.Nil(t, b.Sender())
}

func TestEnsureLaunched_ThreadMode(t *testing.T) {
	set := settings.Default()
	set.StartMode = settings.StartThread
	set.RunDir = t.TempDir()

	b := New(set, logger.Noop())
	require.NoError(t, b.EnsureLaunched())

	assert.Zero(t, b.Pid(), "thread mode must not report an OS process id")
	require.NotNil(t, b.Sender())

	require.NoError(t, b.Sender().Publish(record.Metric(map[string]float64{"loss": 0.5})))
	require.NoError(t, b.Sender().Publish(record.Log("epoch 1 done")))
	require.NoError(t, b.Sender().Drain())

	b.Cleanup()

	data, err := os.ReadFile(filepath.Join(set.RunDir, set.RunID+".jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "epoch 1 done")

	summary, err := os.ReadFile(filepath.Join(set.RunDir, set.RunID+"-summary.json"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "\"loss\": 0.5")
}

func TestEnsureLaunched_SanitizesSettings(t *testing.T) {
	set := settings.Default()
	set.StartMode = settings.StartThread
	set.EarlyLogger = logger.NewBufferLogger()

	var captured settings.Settings
	b := New(set, logger.Noop())
	b.target = func(got settings.Settings, recordQ transport.Consumer[*record.Record], resultQ transport.Producer[*record.Result]) error {
		captured = got
		for {
			rec, err := recordQ.Get()
			if err != nil {
				return nil
			}
			if rec.Kind == record.KindControl {
				resultQ.Put(&record.Result{RecordID: rec.ID})
				if rec.Control == record.OpShutdown {
					return nil
				}
			}
		}
	}

	require.NoError(t, b.EnsureLaunched())
	b.Cleanup()

	assert.Nil(t, captured.EarlyLogger, "the early logger must never reach the worker")
	assert.NotEmpty(t, captured.LogLevel)
}

// TestWorkerHelperProcess is not a real test: it is the entry point for the
// process-mode tests below, reached only when this test binary is
// re-invoked with the worker entry mark set.
func TestWorkerHelperProcess(t *testing.T) {
	payload, ok := spawn.EntryMark()
	if !ok {
		t.Skip("not spawned as a worker")
	}
	if err := worker.RunFromEntry(payload); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}

func TestProcessMode_EndToEnd(t *testing.T) {
	set := settings.Default()
	set.RunDir = t.TempDir()
	clean := set.Sanitize()

	exe, err := os.Executable()
	require.NoError(t, err)
	sctx := spawn.Context{
		Executable: exe,
		Args:       []string{"-test.run=^TestWorkerHelperProcess$"},
	}

	proc, pair, err := newProcessWorker(sctx, clean)
	require.NoError(t, err)
	require.NoError(t, proc.Start())

	assert.NotZero(t, proc.Pid(), "process mode must report a real pid")

	_, present := os.LookupEnv(spawn.EntryEnv)
	assert.False(t, present, "entry mark must not survive the start call")

	sender := NewSender(pair)
	require.NoError(t, sender.Publish(record.Metric(map[string]float64{"acc": 0.9})))
	require.NoError(t, sender.Drain())
	require.NoError(t, sender.Join())
	require.NoError(t, proc.Wait())
	_ = pair.Close()

	summary, err := os.ReadFile(filepath.Join(set.RunDir, clean.RunID+"-summary.json"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "\"acc\": 0.9")
}

func TestRunModeSelection(t *testing.T) {
	tests := []struct {
		mode   string
		thread bool
	}{
		{"thread", true},
		{"process", false},
		{"", false},
		{"fork", false},
	}

	for _, tt := range tests {
		set := settings.Settings{StartMode: tt.mode}
		assert.Equal(t, tt.thread, set.ThreadMode(), "mode %q", tt.mode)
	}
}

func TestProcessWorker_SettingsPayload(t *testing.T) {
	set := settings.Default()
	clean := set.Sanitize()

	proc, _, err := newProcessWorker(spawn.Context{Executable: "/bin/true"}, clean)
	require.NoError(t, err)

	var decoded settings.Settings
	require.NoError(t, json.Unmarshal([]byte(proc.entry), &decoded))
	assert.Equal(t, clean.RunID, decoded.RunID)
	assert.Zero(t, proc.Pid(), "no pid before start")
}
