package funclet

import (
	"github.com/nyambati/funclet/internal/functions"
	"github.com/nyambati/funclet/internal/gateway"
	"github.com/nyambati/funclet/internal/health"
	"github.com/nyambati/funclet/internal/invoker"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/nyambati/funclet/internal/scheduler"
	"github.com/nyambati/funclet/internal/worker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "start the worker and a local functions host",
	Long: `Start the custom handler worker together with a local host that serves the
HTTP trigger routes, keeps the queues in memory and dispatches queue triggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		entry := logger.WithField("mode", "up")

		queues := queue.NewService(cfg.Queue.Capacity, entry)
		defer queues.Close()

		w := worker.NewWorker(cfg.Worker.Port, functions.Handlers(), logger)
		inv := invoker.NewInvoker(cfg.WorkerURL(), cfg.Invoke.Timeout, entry)
		sched := scheduler.NewScheduler(fnRegistry, inv, queues, cfg.Invoke.Timeout, entry)
		gw := gateway.NewAPIGateway(cfg, fnRegistry, sched, queues, logger)
		checker := health.NewHealthChecker(cfg.Health.Timeout, cfg.Health.Interval, entry)

		wg, ctx := errgroup.WithContext(cmd.Context())
		wg.Go(func() error { return w.Start(ctx) })
		wg.Go(func() error {
			if err := checker.WaitForHealthy(ctx, cfg.WorkerURL()+worker.HealthPath); err != nil {
				return err
			}
			wg.Go(func() error { return sched.Start(ctx) })
			return gw.Start(ctx)
		})

		if err := wg.Wait(); err != nil {
			logger.WithError(err).Fatal("funclet host stopped")
		}
		logger.Info("funclet host stopped")
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
}
