package funclet

import (
	"github.com/nyambati/funclet/internal/functions"
	"github.com/nyambati/funclet/internal/worker"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "start the custom handler worker",
	Long: `Start the custom handler worker only. This is the process the Azure Functions
host launches; it listens on FUNCTIONS_CUSTOMHANDLER_PORT.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := worker.NewWorker(cfg.Worker.Port, functions.Handlers(), logger)
		if err := w.Start(cmd.Context()); err != nil {
			logger.WithError(err).Fatal("failed to start worker")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
