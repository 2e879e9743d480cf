package config

import (
	"fmt"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/settings"
)

var validModes = map[string]bool{
	settings.StartProcess: true,
	settings.StartThread:  true,
}

var validLogLevels = map[string]bool{
	settings.LevelDebug: true,
	settings.LevelInfo:  true,
	settings.LevelWarn:  true,
	settings.LevelError: true,
}

var validColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but tracklet only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest tracklet release")
	}

	if cfg.Run.Dir == "" {
		return errors.New(errors.ErrConfig,
			"Run directory cannot be empty",
			"Set 'run.dir' in your .tracklet.yaml, or remove it to use the default")
	}

	if !validModes[cfg.Run.Mode] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown run mode '%s'", cfg.Run.Mode),
			"Use 'process' or 'thread' for 'run.mode'")
	}

	if !validLogLevels[cfg.Run.LogLevel] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log level '%s'", cfg.Run.LogLevel),
			"Use 'debug', 'info', 'warn', or 'error' for 'run.log_level'")
	}

	if cfg.Stats.Enabled && cfg.Stats.Interval <= 0 {
		return errors.New(errors.ErrConfig,
			"Stats interval must be positive when stats are enabled",
			"Set 'stats.interval' to a duration like '10s', or disable stats")
	}

	if cfg.Monitor.Refresh <= 0 {
		return errors.New(errors.ErrConfig,
			"Monitor refresh interval must be positive",
			"Set 'monitor.refresh' to a duration like '2s'")
	}

	if cfg.Monitor.History < 2 {
		return errors.New(errors.ErrConfig,
			"Monitor history must keep at least 2 samples",
			"Set 'monitor.history' to 2 or more")
	}

	if !validColorModes[cfg.Output.Color] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown color mode '%s'", cfg.Output.Color),
			"Use 'auto', 'always', or 'never' for 'output.color'")
	}

	return nil
}
