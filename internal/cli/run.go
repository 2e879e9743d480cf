package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tracklet/tracklet/internal/backend"
	"github.com/tracklet/tracklet/internal/config"
	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/exec"
	"github.com/tracklet/tracklet/internal/logger"
	"github.com/tracklet/tracklet/internal/printer"
	"github.com/tracklet/tracklet/internal/record"
	"github.com/tracklet/tracklet/internal/settings"
)

// runCommand executes a command with a tracking worker attached.
// Flags override config; config overrides defaults.
func runCommand(args []string, modeFlag, dirFlag, idFlag, statsFlag string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	set := cfg.Settings()
	if modeFlag != "" {
		set.StartMode = modeFlag
	}
	if dirFlag != "" {
		set.RunDir = dirFlag
	}
	if idFlag != "" {
		set.RunID = idFlag
	}
	if statsFlag != "" {
		interval, err := time.ParseDuration(statsFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"'"+statsFlag+"' doesn't look like a valid stats interval",
				"Try something like 10s, 30s, or 0 to disable.")
		}
		set.StatsInterval = int(interval / time.Second)
	}
	if set.StartMode != settings.StartProcess && set.StartMode != settings.StartThread {
		return errors.New(errors.ErrConfig,
			"Unknown run mode '"+set.StartMode+"'",
			"Use --mode process or --mode thread.")
	}
	set.EarlyLogger = logger.Default()

	command := strings.Join(args, " ")
	pr := printer.New(true)

	exitCode, err := trackCommand(command, set, pr)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// trackCommand launches the worker, runs the command, and finalizes the run.
func trackCommand(command string, set settings.Settings, pr printer.Printer) (int, error) {
	b := backend.New(set, set.EarlyLogger)
	if err := b.EnsureLaunched(); err != nil {
		return -1, err
	}
	defer b.Cleanup()

	sender := b.Sender()

	start := record.New(record.KindRunStart)
	start.Text = command
	if err := sender.Publish(start); err != nil {
		return -1, err
	}

	pr.Info("tracking run " + pr.Name(set.RunID))
	if pid := b.Pid(); pid != 0 {
		pr.Info(fmt.Sprintf("worker pid %d", pid))
	}
	pr.Display()

	// Mirror output to the terminal while publishing each line as a
	// log record. Publish errors mean the worker died; stop forwarding
	// but let the command finish.
	var dead bool
	logLine := func(line string) {
		if dead {
			return
		}
		if err := sender.Publish(record.Log(line)); err != nil {
			dead = true
		}
	}
	stdout := exec.NewLineWriter(logLine)
	stderr := exec.NewLineWriter(logLine)

	began := time.Now()
	exitCode, err := exec.ExecuteLocal(command, "",
		io.MultiWriter(os.Stdout, stdout),
		io.MultiWriter(os.Stderr, stderr))
	if err != nil {
		b.Abort()
		return -1, err
	}
	stdout.Flush()
	stderr.Flush()

	summary := record.New(record.KindSummary)
	summary.Values = map[string]float64{
		"exit_code":        float64(exitCode),
		"duration_seconds": time.Since(began).Seconds(),
	}
	if err := sender.Publish(summary); err == nil {
		_ = sender.Drain()
	}

	b.Cleanup()

	pr.Info(pr.Status("run "+set.RunID+" finished", exitCode != 0))
	pr.Info("records in " + pr.Files(filepath.Join(set.RunDir, set.RunID+".jsonl")))
	pr.Display()

	return exitCode, nil
}
