package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tracklet/tracklet/internal/config"
	"github.com/tracklet/tracklet/internal/printer"
)

// runEntry is one recorded run discovered in the run directory.
type runEntry struct {
	id      string
	modTime int64
	summary map[string]float64
}

// statusCommand lists recent runs and their summaries.
func statusCommand(limit int) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	pr := printer.New(true)

	entries, err := collectRuns(cfg.Run.Dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		pr.Info("No runs recorded in " + pr.Files(cfg.Run.Dir))
		pr.Info("Start one with " + pr.Code("tracklet run \"<command>\""))
		pr.Display()
		return nil
	}

	// Newest first.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime > entries[j].modTime
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	rows := [][]string{{"run", "exit", "duration", "metrics"}}
	for _, e := range entries {
		rows = append(rows, []string{
			e.id,
			summaryField(e.summary, "exit_code"),
			summaryField(e.summary, "duration_seconds"),
			fmt.Sprintf("%d", len(e.summary)),
		})
	}

	pr.Info(pr.Grid(rows, fmt.Sprintf("runs in %s", cfg.Run.Dir)))
	pr.Display()
	return nil
}

// collectRuns reads every summary file in the run directory.
func collectRuns(dir string) ([]runEntry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*-summary.json"))
	if err != nil {
		return nil, err
	}

	var entries []runEntry
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		var summary struct {
			Values map[string]float64 `json:"values"`
		}
		if data, err := os.ReadFile(path); err == nil {
			_ = json.Unmarshal(data, &summary)
		}

		entries = append(entries, runEntry{
			id:      strings.TrimSuffix(filepath.Base(path), "-summary.json"),
			modTime: info.ModTime().UnixNano(),
			summary: summary.Values,
		})
	}
	return entries, nil
}

// summaryField formats one summary value, or "-" when absent.
func summaryField(summary map[string]float64, key string) string {
	v, ok := summary[key]
	if !ok {
		return "-"
	}
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
