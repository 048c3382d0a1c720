// Package cli implements the stubdock command-line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stubdock/stubdock/pkg/config"
	"github.com/stubdock/stubdock/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	logLevel   string
	logFormat  string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stubdock",
	Short: "stubdock is a stateful sandbox API simulator",
	Long: `stubdock simulates a third-party sandbox API in one process: shipment
CRUD, a read-only inventory catalog, auth flows, webhook triggers, rate
limiting, and canned failures, all behind a single deterministic
dispatcher with configurable artificial latency.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides config)")
}

// loadConfig resolves the effective configuration: the --config file when
// given, built-in defaults otherwise.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(configPath)
}

// buildLogger applies the log flag overrides on top of the config.
func buildLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.Log.Format
	if logFormat != "" {
		format = logFormat
	}
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Format: logging.ParseFormat(format),
		Output: os.Stderr,
	})
}
