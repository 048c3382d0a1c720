package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/stubdock/stubdock/pkg/engine"
	"github.com/stubdock/stubdock/pkg/metrics"
	"github.com/stubdock/stubdock/pkg/server"
)

var (
	serveAddr    string
	serveMetrics bool
)

// shutdownGrace bounds how long in-flight requests may drain on SIGTERM.
const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulator HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := buildLogger(cfg)

		var reg *prometheus.Registry
		var rec metrics.Recorder = metrics.Nop{}
		if serveMetrics {
			reg = prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			rec = metrics.NewProm(reg)
		}

		eng, err := engine.New(engine.Options{
			Config:  cfg,
			Logger:  log,
			Metrics: rec,
		})
		if err != nil {
			return err
		}

		srv := server.New(server.Options{
			Addr:     serveAddr,
			Engine:   eng,
			Logger:   log,
			Registry: reg,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().BoolVar(&serveMetrics, "metrics", true, "Expose Prometheus metrics on /metrics")
}
