package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/tracklet/tracklet/internal/config"
	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/printer"
	"github.com/tracklet/tracklet/internal/settings"
)

// initCommand creates a new .tracklet.yaml configuration file.
func initCommand(runDir, mode string, force, nonInteractive bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		if nonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if runDir != "" {
		cfg.Run.Dir = runDir
	}
	if mode != "" {
		cfg.Run.Mode = mode
	}

	if !nonInteractive {
		statsInterval := cfg.Stats.Interval.String()

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Run directory").
					Description("Where run records and summaries are written").
					Placeholder(".tracklet").
					Value(&cfg.Run.Dir).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("run directory is required")
						}
						return nil
					}),
			),
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Worker mode").
					Description("process survives crashes in your command; thread avoids a second process").
					Options(
						huh.NewOption("process (recommended)", settings.StartProcess),
						huh.NewOption("thread", settings.StartThread),
					).
					Value(&cfg.Run.Mode),
			),
			huh.NewGroup(
				huh.NewConfirm().
					Title("Sample device stats during runs?").
					Value(&cfg.Stats.Enabled),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Stats sampling interval").
					Description("How often device metrics are sampled (e.g. 10s)").
					Placeholder("10s").
					Value(&statsInterval).
					Validate(func(s string) error {
						d, err := time.ParseDuration(s)
						if err != nil {
							return fmt.Errorf("not a valid duration")
						}
						if d <= 0 {
							return fmt.Errorf("interval must be positive")
						}
						return nil
					}),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --yes for defaults")
		}

		if d, err := time.ParseDuration(statsInterval); err == nil {
			cfg.Stats.Interval = d
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+configPath,
			"Check directory permissions")
	}

	pr := printer.New(true)
	pr.Info(pr.Emoji("star") + "Created " + pr.Files(configPath))
	pr.Info("Start a tracked run with " + pr.Code("tracklet run \"<command>\""))
	pr.Display()
	return nil
}
