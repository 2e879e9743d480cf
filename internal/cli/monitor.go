package cli

import (
	stderrors "errors"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/tracklet/tracklet/internal/config"
	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/monitor"
	"github.com/tracklet/tracklet/internal/stats"
)

// monitorCommand starts the TUI metrics dashboard.
func monitorCommand(interval time.Duration) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The monitor needs an interactive terminal",
			"Run 'tracklet monitor' directly in a TTY, not through a pipe.")
	}

	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	sampler, err := stats.NewSampler(stats.DefaultQuery())
	if err != nil {
		if stderrors.Is(err, stats.ErrUnavailable) {
			return errors.New(errors.ErrStats,
				"No device stats backend available on this machine",
				"Install the vendor device library, or check it is on the loader path.")
		}
		return errors.WrapWithCode(err, errors.ErrStats,
			"Failed to initialize device stats",
			"Check the device backend is working.")
	}

	if interval <= 0 {
		interval = cfg.Monitor.Refresh
	}
	return monitor.Run(sampler, interval, cfg.Monitor.History)
}
