package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stubdock/stubdock/pkg/engine"
	"github.com/stubdock/stubdock/pkg/logging"
)

var (
	dispatchMethod  string
	dispatchData    string
	dispatchHeaders []string
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <path>",
	Short: "Dispatch a single request through the engine and print the response",
	Long: `Dispatch runs one request against a fresh engine instance without
starting a server. Useful for inspecting endpoint behavior or checking a
config file's scenarios.

  stubdock dispatch /inventory
  stubdock dispatch /shipments -X POST -d '{"origin":"Paris","destination":"London"}'
  stubdock dispatch /auth/api-key -H 'X-API-Key: sandbox-key-789'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var body map[string]any
		if dispatchData != "" {
			if err := json.Unmarshal([]byte(dispatchData), &body); err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}
		}

		headers := make(map[string]string, len(dispatchHeaders))
		for _, h := range dispatchHeaders {
			name, value, ok := strings.Cut(h, ":")
			if !ok {
				return fmt.Errorf("invalid header %q, want 'Name: value'", h)
			}
			headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}

		eng, err := engine.New(engine.Options{Config: cfg, Logger: logging.Nop()})
		if err != nil {
			return err
		}

		resp := eng.Dispatch(cmd.Context(), engine.Request{
			Method:  strings.ToUpper(dispatchMethod),
			Path:    args[0],
			Body:    body,
			Headers: headers,
		})

		out := map[string]any{"status": resp.Status}
		if resp.Data != nil {
			out["body"] = resp.Data
		}
		if len(resp.Headers) > 0 {
			out["headers"] = resp.Headers
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(dispatchCmd)

	dispatchCmd.Flags().StringVarP(&dispatchMethod, "method", "X", "GET", "Request method")
	dispatchCmd.Flags().StringVarP(&dispatchData, "data", "d", "", "JSON request body")
	dispatchCmd.Flags().StringArrayVarP(&dispatchHeaders, "header", "H", nil, "Request header 'Name: value' (repeatable)")
}
