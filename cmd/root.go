package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/omega-x/kgprep/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	quiet   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "kgprep",
	Short: "kgprep: split IEC 61850 telemetry exports per device and map them to RDF",
	Long: `kgprep prepares substation telemetry for a knowledge graph. It splits wide CSV/XLSX
exports into one table per device, normalizes timestamps, derives the IEC 61850
semantics of each column and renders RML mapping files from them.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.kgprep/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress progress and non-essential output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		warnf("failed to load config: %v", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

// warnf prints a recoverable problem to stderr.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", args...)
}

func warnAll(prefix string, warnings []string) {
	for _, w := range warnings {
		if prefix != "" {
			warnf("%s: %s", prefix, w)
		} else {
			warnf("%s", w)
		}
	}
}

// progressf prints a progress line unless --quiet is set.
func progressf(format string, args ...any) {
	if quiet {
		return
	}
	fmt.Printf(format+"\n", args...)
}

// debugf prints per-step detail when --debug is set.
func debugf(format string, args ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
}

// pick returns the flag value when set, otherwise the configured one.
func pick(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

// currentConfig returns the loaded configuration, loading it on first use.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}
