package cli

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				m := metrics.New(reg)
				m.Attach(a.manager)

				g, ctx := errgroup.WithContext(cmd.Context())

				if a.publisher != nil {
					g.Go(func() error { return a.publisher.Run(ctx) })
					slog.Info("Publishing settlement events", "url", a.cfg.Events.NATSURL, "subject", events.SubjectBillSettled)
				}

				srv := server.New(a.manager, m, reg)
				g.Go(func() error {
					return srv.Run(ctx, a.cfg.Addr(), a.cfg.ShutdownTimeout())
				})

				slog.Info("Settleup ready",
					"members", len(a.manager.Snapshot().Members),
					"mode", a.manager.Mode(),
					"storage", a.cfg.Storage.Backend,
				)
				return g.Wait()
			})
		},
	}
}
