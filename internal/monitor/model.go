package monitor

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tracklet/tracklet/internal/stats"
)

// spinnerFrames is the animation shown before the first sample lands.
var spinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// Model is the Bubble Tea model for the live metrics dashboard.
type Model struct {
	sampler *stats.Sampler
	history *History
	current map[string]float64
	order   []string

	spinner    spinner.Model
	refresh    time.Duration
	width      int
	height     int
	lastUpdate time.Time
	lastErr    string
	paused     bool
	quitting   bool
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// sampleMsg carries a fresh sample from the device backend.
type sampleMsg struct {
	sample map[string]float64
	err    string
	time   time.Time
}

// NewModel creates a dashboard model over the given sampler.
func NewModel(sampler *stats.Sampler, refresh time.Duration, historySize int) Model {
	sp := spinner.New()
	sp.Spinner = spinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	if refresh <= 0 {
		refresh = 2 * time.Second
	}

	return Model{
		sampler: sampler,
		history: NewHistory(historySize),
		current: make(map[string]float64),
		spinner: sp,
		refresh: refresh,
	}
}

// Init starts the tick timer and triggers an initial sample.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tickCmd(), m.sampleCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
		case "c":
			m.history.Clear()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, m.tickCmd()
		}
		return m, tea.Batch(m.tickCmd(), m.sampleCmd())

	case sampleMsg:
		m.lastUpdate = msg.time
		m.lastErr = msg.err
		m.applySample(msg.sample)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sampleCmd returns a command that takes one sample from the device backend.
func (m Model) sampleCmd() tea.Cmd {
	return func() tea.Msg {
		errStr := ""
		if serr := m.sampler.Sample(); serr != nil {
			errStr = serr.Error()
		}
		sample := m.sampler.Latest()
		// The sampler buffers samples for run summaries; the dashboard
		// only needs the latest, so drop the buffer to bound memory.
		m.sampler.Clear()
		return sampleMsg{sample: sample, err: errStr, time: time.Now()}
	}
}

// applySample merges a sample into the current values and history.
// Metrics persist once seen; samplers report static metrics only on
// the first observation of a device.
func (m *Model) applySample(sample map[string]float64) {
	if len(sample) == 0 {
		return
	}

	for name, value := range sample {
		if _, known := m.current[name]; !known {
			m.order = append(m.order, name)
		}
		m.current[name] = value
	}
	sort.Strings(m.order)
	m.history.Push(sample)
}
