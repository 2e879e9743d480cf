// Package settings holds the run settings that cross the boundary between
// the owning process and the worker. Everything in Settings must survive
// serialization; the one exception is the early logger, which exists only so
// launch-time code can log before the worker owns logging, and which is
// stripped before the settings are handed to the worker.
package settings

import (
	"github.com/google/uuid"
	"github.com/tracklet/tracklet/internal/logger"
)

// Log levels understood by the worker.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Start modes for the worker.
const (
	// StartProcess runs the worker as a separate OS process (the default).
	StartProcess = "process"
	// StartThread runs the worker as a daemon goroutine in this process.
	StartThread = "thread"
)

// Settings is the option mapping passed by value into the worker.
// All fields other than EarlyLogger are serializable.
type Settings struct {
	// RunID identifies the run; assigned at launch if empty.
	RunID string `json:"run_id"`

	// RunDir is where the worker writes the record log and summary.
	RunDir string `json:"run_dir"`

	// LogLevel controls worker-side logging verbosity.
	LogLevel string `json:"log_level"`

	// StartMode selects process or thread mode ("thread" is the only value
	// that avoids a separate process; anything else means process mode).
	StartMode string `json:"start_mode"`

	// StatsInterval is the device stats sampling interval in seconds.
	// Zero disables sampling.
	StatsInterval int `json:"stats_interval"`

	// Extra carries free-form string options.
	Extra map[string]string `json:"extra,omitempty"`

	// EarlyLogger is an in-process handle used during launch only.
	// It cannot cross the process boundary and must never reach the worker.
	EarlyLogger logger.Logger `json:"-"`
}

// Default returns settings with sensible defaults filled in.
func Default() Settings {
	return Settings{
		RunID:     uuid.NewString(),
		RunDir:    ".tracklet",
		LogLevel:  LevelInfo,
		StartMode: StartProcess,
	}
}

// Sanitize returns a copy safe to hand to the worker: the early logger is
// removed and the log level defaulted. The receiver is not modified.
func (s Settings) Sanitize() Settings {
	out := s
	out.EarlyLogger = nil
	if out.LogLevel == "" {
		out.LogLevel = LevelDebug
	}
	if out.RunID == "" {
		out.RunID = uuid.NewString()
	}
	if out.Extra != nil {
		extra := make(map[string]string, len(out.Extra))
		for k, v := range out.Extra {
			extra[k] = v
		}
		out.Extra = extra
	}
	return out
}

// ThreadMode reports whether the settings request the in-process worker.
func (s Settings) ThreadMode() bool {
	return s.StartMode == StartThread
}
