package funclet

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/nyambati/funclet/internal/functions"
	"github.com/nyambati/funclet/internal/lambda"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/spf13/cobra"
)

var lambdaFunction string

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "run a function as an AWS Lambda handler",
	Long: `Run one function under the AWS Lambda runtime. HTTP functions take API Gateway
HTTP API events, queue functions take SQS events. Queue outputs are posted to
queue.endpoint when it is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		entry := logger.WithField("mode", "lambda")

		var publisher queue.Publisher = queue.NewLogPublisher(entry)
		if cfg.Queue.Endpoint != "" {
			publisher = queue.NewHTTPPublisher(cfg.Queue.Endpoint, cfg.Invoke.Timeout, entry)
		}

		adapter := lambda.NewAdapter(fnRegistry, functions.Handlers(), publisher, entry)
		handler, err := adapter.Handler(cmd.Context(), lambdaFunction)
		if err != nil {
			logger.WithError(err).Fatal("failed to create lambda handler")
		}
		awslambda.StartWithOptions(handler, awslambda.WithContext(cmd.Context()))
	},
}

func init() {
	lambdaCmd.Flags().StringVarP(&lambdaFunction, "function", "f", functions.HTTPExampleName, "function to serve")
	rootCmd.AddCommand(lambdaCmd)
}
