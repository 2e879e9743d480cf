package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/settings"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ConfigFileName, `
version: 1
run:
  dir: runs
  mode: thread
  log_level: debug
stats:
  enabled: true
  interval: 5s
monitor:
  refresh: 1s
  history: 30
output:
  color: never
  emoji: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "runs", cfg.Run.Dir)
	assert.Equal(t, settings.StartThread, cfg.Run.Mode)
	assert.Equal(t, settings.LevelDebug, cfg.Run.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Stats.Interval)
	assert.Equal(t, time.Second, cfg.Monitor.Refresh)
	assert.Equal(t, 30, cfg.Monitor.History)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.False(t, cfg.Output.Emoji)
}

func TestLoad_PartialConfigMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ConfigFileName, `
version: 1
run:
  dir: custom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Run.Dir)
	assert.Equal(t, settings.StartProcess, cfg.Run.Mode)
	assert.Equal(t, settings.LevelInfo, cfg.Run.LogLevel)
	assert.True(t, cfg.Stats.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Stats.Interval)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ConfigFileName, "run: [not a map")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "my.yaml", "version: 1\n")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = Find(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ConfigFileName, "version: 1\n")
	t.Chdir(dir)

	found, err := Find("")
	require.NoError(t, err)
	// TempDir may be behind a symlink on darwin; compare real paths.
	wantReal, _ := filepath.EvalSymlinks(path)
	gotReal, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, wantReal, gotReal)
}

func TestFind_WalksUpToGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	path := writeConfig(t, root, ConfigFileName, "version: 1\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	found, err := Find("")
	require.NoError(t, err)
	wantReal, _ := filepath.EvalSymlinks(path)
	gotReal, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, wantReal, gotReal)
}

func TestLoadOrDefault_NoConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "empty run dir",
			mutate:  func(c *Config) { c.Run.Dir = "" },
			wantErr: "Run directory",
		},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Run.Mode = "fork" },
			wantErr: "Unknown run mode",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Run.LogLevel = "trace" },
			wantErr: "Unknown log level",
		},
		{
			name:    "zero stats interval while enabled",
			mutate:  func(c *Config) { c.Stats.Interval = 0 },
			wantErr: "Stats interval",
		},
		{
			name: "zero stats interval while disabled is fine",
			mutate: func(c *Config) {
				c.Stats.Enabled = false
				c.Stats.Interval = 0
			},
		},
		{
			name:    "tiny monitor history",
			mutate:  func(c *Config) { c.Monitor.History = 1 },
			wantErr: "history",
		},
		{
			name:    "bad color mode",
			mutate:  func(c *Config) { c.Output.Color = "sometimes" },
			wantErr: "color mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Settings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.Dir = "out"
	cfg.Run.Mode = settings.StartThread
	cfg.Stats.Interval = 15 * time.Second

	set := cfg.Settings()
	assert.Equal(t, "out", set.RunDir)
	assert.True(t, set.ThreadMode())
	assert.Equal(t, 15, set.StatsInterval)
	assert.NotEmpty(t, set.RunID)

	cfg.Stats.Enabled = false
	assert.Zero(t, cfg.Settings().StatsInterval)
}
