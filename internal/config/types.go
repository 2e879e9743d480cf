package config

import (
	"time"

	"github.com/tracklet/tracklet/internal/settings"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .tracklet.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Run     RunConfig     `yaml:"run" mapstructure:"run"`
	Stats   StatsConfig   `yaml:"stats" mapstructure:"stats"`
	Monitor MonitorConfig `yaml:"monitor" mapstructure:"monitor"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// RunConfig controls how tracked runs are launched and recorded.
type RunConfig struct {
	// Dir is where run logs and summaries are written.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Mode selects the worker launch mode: "process" or "thread".
	Mode string `yaml:"mode" mapstructure:"mode"`

	// LogLevel for the worker: "debug", "info", "warn", or "error".
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// StatsConfig controls system metric sampling during a run.
type StatsConfig struct {
	// Enabled toggles sampling on/off.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Interval between samples.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// MonitorConfig controls the live monitor dashboard.
type MonitorConfig struct {
	// Refresh is how often the dashboard redraws.
	Refresh time.Duration `yaml:"refresh" mapstructure:"refresh"`

	// History is how many samples each sparkline keeps.
	History int `yaml:"history" mapstructure:"history"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// Emoji toggles decorative glyphs in status output.
	Emoji bool `yaml:"emoji" mapstructure:"emoji"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Run: RunConfig{
			Dir:      ".tracklet",
			Mode:     settings.StartProcess,
			LogLevel: settings.LevelInfo,
		},
		Stats: StatsConfig{
			Enabled:  true,
			Interval: 10 * time.Second,
		},
		Monitor: MonitorConfig{
			Refresh: 2 * time.Second,
			History: 60,
		},
		Output: OutputConfig{
			Color: "auto",
			Emoji: true,
		},
	}
}

// Settings builds run settings from the config. Fields the config does
// not cover (run ID, early logger) keep their generated defaults.
func (c *Config) Settings() settings.Settings {
	set := settings.Default()
	set.RunDir = c.Run.Dir
	set.StartMode = c.Run.Mode
	set.LogLevel = c.Run.LogLevel
	if c.Stats.Enabled {
		set.StatsInterval = int(c.Stats.Interval / time.Second)
	} else {
		set.StatsInterval = 0
	}
	return set
}
