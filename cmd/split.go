package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/omega-x/kgprep/internal/metrics"
	"github.com/omega-x/kgprep/internal/splitter"
	"github.com/spf13/cobra"
)

var (
	spOutputDir   string
	spTimeCol     string
	spAltTimeCol  string
	spDeviceCol   string
	spFileID      string
	spMetricsFile string
	spDryRun      bool
	spKeepGoing   bool
)

var splitCmd = &cobra.Command{
	Use:   "split <files...>",
	Short: "Split telemetry tables (CSV/TSV/XLSX) into one CSV per device",
	Long: `Split reads each input table, detects whether devices are encoded in column
headers or in a device column, rebuilds split "ts"/"timestamp_gmt" time columns,
normalizes timestamps and writes one CSV per device into the output directory.
Arguments may be glob patterns.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c := currentConfig()
		opts := splitter.RunOptions{
			OutputDir:     pick(spOutputDir, c.OutputDir),
			TimeColumn:    pick(spTimeCol, c.TimeCol),
			AltTimeColumn: pick(spAltTimeCol, c.AltTimeCol),
			DeviceColumn:  pick(spDeviceCol, c.DeviceCol),
			FileID:        pick(spFileID, c.FileID),
			DryRun:        spDryRun,
		}
		if opts.OutputDir == "" {
			opts.OutputDir = "."
		}
		metricsFile := pick(spMetricsFile, c.MetricsFile)
		m := metrics.New()

		var failed int
		written := outputLedger{}
		total := len(files)
		for i, path := range files {
			progressf("[%d/%d] Processing %s...", i+1, total, filepath.Base(path))
			opts.Input = path
			start := time.Now()
			sum, err := splitter.Run(opts)
			if err != nil {
				m.ObserveFailure()
				if !spKeepGoing {
					writeMetrics(m, metricsFile)
					return err
				}
				fmt.Fprintln(os.Stderr, "✗ Error:", err)
				failed++
				continue
			}
			m.ObserveFile(sum.Rows, len(sum.Files), sum.WarningCounts(), time.Since(start))
			reportSplit(sum)
			for _, w := range written.record(sum.Input, sum.Files) {
				warnf("%s", w)
			}
		}
		writeMetrics(m, metricsFile)
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

func reportSplit(sum *splitter.Summary) {
	debugf("run %s: strategy=%s format=%s rows=%d", sum.RunID, sum.Strategy, sum.Format, sum.Rows)
	for _, w := range sum.Warnings {
		warnf("%s: %s", filepath.Base(sum.Input), w)
	}
	verb := "Wrote"
	if spDryRun {
		verb = "Would write"
	}
	for i, f := range sum.Files {
		debugf("%s -> %s", sum.Devices[i], f)
	}
	progressf("✓ %s %d device file(s) from %s (%s, %d rows)", verb, len(sum.Files), filepath.Base(sum.Input), sum.Format, sum.Rows)
}

// outputLedger maps each output path of a batch to the input that produced it.
type outputLedger map[string]string

// record registers files produced from input and reports every path an
// earlier input of the batch already wrote.
func (l outputLedger) record(input string, files []string) []string {
	var warnings []string
	for _, f := range files {
		if prev, ok := l[f]; ok && prev != input {
			warnings = append(warnings, fmt.Sprintf("%s from %s replaces the one from %s; use --file-id to keep both", f, filepath.Base(input), filepath.Base(prev)))
		}
		l[f] = input
	}
	return warnings
}

func writeMetrics(m *metrics.Metrics, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		warnf("metrics: %v", err)
		return
	}
	debugf("metrics written to %s", path)
}

// expandInputs resolves glob patterns, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path; a missing file fails at load time
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().StringVarP(&spOutputDir, "output-dir", "o", "", "directory for per-device CSV files (default from config)")
	splitCmd.Flags().StringVar(&spTimeCol, "time-col", "", "primary time column name (default from config)")
	splitCmd.Flags().StringVar(&spAltTimeCol, "alt-time-col", "", "fallback time column name (default from config)")
	splitCmd.Flags().StringVar(&spDeviceCol, "device-col", "", "explicit device column (auto-detected if omitted)")
	splitCmd.Flags().StringVar(&spFileID, "file-id", "", "suffix appended to output file names, e.g. a window id")
	splitCmd.Flags().StringVar(&spMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	splitCmd.Flags().BoolVar(&spDryRun, "dry-run", false, "detect and split without writing files")
	splitCmd.Flags().BoolVar(&spKeepGoing, "keep-going", false, "continue with remaining files after a fatal error")
}
