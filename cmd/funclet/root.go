package funclet

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nyambati/funclet/internal/config"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfg *config.Config
var cfgFile string
var logger *logrus.Logger
var fnRegistry registry.FunctionRegistryInterface

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "funclet",
	Short: "Serverless greeting functions behind an Azure Functions custom handler",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		if cfg, err = config.NewConfig(cfgFile); err != nil {
			logger.WithError(err).Fatal("failed to load funclet config")
		}
		configureLogger(cfg.Log)

		fnRegistry = registry.NewRegistry(cfg.Registry.Path, cfg.Queue, logger.WithField("component", "registry"))
		if err := fnRegistry.Load(cmd.Context()); err != nil {
			logger.WithError(err).Fatal("failed to load function registry")
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.WithError(err).Fatal("error occured while running funclet")
	}
}

func init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.funclet.yaml)")
}

func configureLogger(c config.Log) {
	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		logger.WithError(err).Warnf("invalid log level %q, using info", c.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}
