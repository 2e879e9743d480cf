package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracklet/tracklet/internal/errors"
)

// Command-specific flags
var (
	runModeFlag     string
	runDirFlag      string
	runIDFlag       string
	runStatsFlag    string
	initForce       bool
	initRunDirFlag  string
	initModeFlag    string
	initYes         bool
	monitorInterval string
	statusLimit     int
)

// runCmd executes a command with a tracking worker attached
var runCmd = &cobra.Command{
	Use:   "run [command]",
	Short: "Run a command with record tracking",
	Long: `Execute a command while a background worker records its lifecycle.

The worker captures the command's output as log records, its exit code
as a metric, and periodic device stats, and writes everything to the
run directory.

Examples:
  tracklet run "make test"
  tracklet run --mode thread "python train.py"
  tracklet run --stats 5s "cargo bench"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(args, runModeFlag, runDirFlag, runIDFlag, runStatsFlag)
	},
}

// statusCmd lists recorded runs
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recorded runs",
	Long: `Display recent runs from the run directory with their summaries.

Examples:
  tracklet status
  tracklet status --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand(statusLimit)
	},
}

// monitorCmd starts the live device metrics dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live device metrics dashboard",
	Long: `Open an interactive dashboard showing device metrics with history
sparklines. Requires a device stats backend on this machine.

Examples:
  tracklet monitor
  tracklet monitor --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := time.ParseDuration(monitorInterval)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"'"+monitorInterval+"' doesn't look like a valid interval",
				"Try something like 2s, 5s, or 1m.")
		}
		return monitorCommand(interval)
	},
}

// initCmd creates a new .tracklet.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .tracklet.yaml configuration",
	Long: `Initialize a new tracklet configuration file.

Creates a .tracklet.yaml file in the current directory with sensible
defaults. Guides you through the options with interactive prompts.

Examples:
  tracklet init
  tracklet init --yes
  tracklet init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initRunDirFlag, initModeFlag, initForce, initYes)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion script",
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&runModeFlag, "mode", "", "worker mode: process or thread (default from config)")
	runCmd.Flags().StringVar(&runDirFlag, "dir", "", "run directory (default from config)")
	runCmd.Flags().StringVar(&runIDFlag, "id", "", "run ID (default: generated)")
	runCmd.Flags().StringVar(&runStatsFlag, "stats", "", "device stats sampling interval, e.g. 10s (0 disables)")

	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "maximum runs to show")

	monitorCmd.Flags().StringVar(&monitorInterval, "interval", "2s", "refresh interval (e.g., 2s, 5s, 1m)")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "skip prompts, use defaults")
	initCmd.Flags().StringVar(&initRunDirFlag, "dir", "", "pre-specify run directory")
	initCmd.Flags().StringVar(&initModeFlag, "mode", "", "pre-specify worker mode")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
