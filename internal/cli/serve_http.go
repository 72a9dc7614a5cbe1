package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/khanglvm/focus-ask/internal/api"
	"github.com/khanglvm/focus-ask/internal/metrics"
	"github.com/khanglvm/focus-ask/internal/scheduler"
	"github.com/spf13/cobra"
)

// NewServeHTTPCmd creates the 'serve-http' command.
func NewServeHTTPCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-http",
		Short: "Run the HTTP API with Prometheus metrics",
		Long: `Start the HTTP API.

Routes:
  POST /v1/ask            {"question": "..."}
  GET  /v1/intent?q=...
  GET  /v1/index
  POST /v1/index/rebuild
  GET  /v1/stats
  GET  /healthz
  GET  /metrics

When index.rebuild_schedule is set, the index is rebuilt on that cron schedule.`,
		Example: `  focus-ask serve-http
  focus-ask serve-http --addr :9090
  FOCUSASK_INDEX_REBUILD_SCHEDULE="0 3 * * *" focus-ask serve-http`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeHTTP(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.http_addr)")
	return cmd
}

func runServeHTTP(parent context.Context, addr string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	m := metrics.New()
	e, cfg, err := openEngine(ctx, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	if addr == "" {
		addr = cfg.Server.HTTPAddr
	}

	rebuilds, err := scheduler.New(cfg.Index.RebuildSchedule, func(ctx context.Context) error {
		n, err := e.Rebuild(ctx)
		if err == nil {
			log.Printf("Scheduled rebuild indexed %d documents", n)
		}
		return err
	})
	if err != nil {
		return err
	}
	rebuilds.Start(ctx)
	defer rebuilds.Stop()

	return api.NewServer(e, m).Run(ctx, addr)
}
