package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklet/tracklet/internal/logger"
)

// Persistent flags shared by all commands.
var (
	configFlag string
	debugFlag  bool
)

// rootCmd is the base command for tracklet.
var rootCmd = &cobra.Command{
	Use:   "tracklet",
	Short: "Track runs and stream their records to a background worker",
	Long: `tracklet launches a background worker that collects run records --
metrics, logs, summaries, device stats -- and writes them to the run
directory, without blocking the tracked command.

The worker runs as a separate process by default so a crash in the
tracked command cannot corrupt run data. Use run.mode: thread in
.tracklet.yaml to keep it in-process instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			os.Setenv("TRACKLET_DEBUG", "1")
			logger.SetDefault(logger.NewEnvLogger("[tracklet]"))
		}
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// Config returns the value of the persistent --config flag.
func Config() string {
	return configFlag
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default: .tracklet.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}
