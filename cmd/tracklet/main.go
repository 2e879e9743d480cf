package main

import (
	"fmt"
	"os"

	"github.com/tracklet/tracklet/internal/cli"
	"github.com/tracklet/tracklet/internal/spawn"
	"github.com/tracklet/tracklet/internal/worker"
)

// Version info set via ldflags at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// When the entry mark is set this process was re-executed to serve
	// as the record worker; it must not touch the CLI.
	if mark, ok := spawn.EntryMark(); ok && mark != "" {
		if err := worker.RunFromEntry(mark); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		return
	}

	cli.SetVersionInfo(version, commit, date)
	cli.Execute()
}
