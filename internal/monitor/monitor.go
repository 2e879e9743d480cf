// Package monitor implements the live device metrics dashboard.
//
// The dashboard samples the local device backend on a fixed interval and
// renders each metric as a current value plus a sparkline of recent
// history. It is a Bubble Tea program and takes over the terminal until
// the user quits.
package monitor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/stats"
)

// Run starts the dashboard and blocks until the user quits.
func Run(sampler *stats.Sampler, refresh time.Duration, historySize int) error {
	model := NewModel(sampler, refresh, historySize)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrStats,
			"Monitor dashboard crashed",
			"Check the terminal supports interactive programs")
	}
	return nil
}
