package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stubdock/stubdock/pkg/engine"
	"github.com/stubdock/stubdock/pkg/logging"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file without starting the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Constructing an engine exercises duration parsing and scenario
		// predicate compilation, not just structural checks.
		if _, err := engine.New(engine.Options{Config: cfg, Logger: logging.Nop()}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "config ok: latency=%s rateLimit=%d/%s webhookBound=%d scenarios=%d\n",
			cfg.Latency, cfg.RateLimit.Limit, cfg.RateLimit.Window, cfg.Webhooks.Bound, len(cfg.Scenarios))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
