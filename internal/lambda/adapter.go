package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/nyambati/funclet/internal/binding"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/functions"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/sirupsen/logrus"
)

func NewAdapter(
	reg registry.FunctionRegistryInterface,
	handlers map[string]functions.Handler,
	publisher queue.Publisher,
	logger *logrus.Entry,
) *Adapter {
	return &Adapter{
		registry:  reg,
		handlers:  handlers,
		publisher: publisher,
		logger:    logger.WithField("component", "lambda"),
	}
}

// Handler returns the Lambda handler matching the function's trigger type.
func (a *Adapter) Handler(ctx context.Context, functionName string) (any, error) {
	fn, exists := a.registry.GetFunction(ctx, functionName)
	if !exists {
		return nil, funcleterrors.NewFunctionNotFoundError(functionName)
	}
	trigger := fn.Trigger()
	if trigger == nil {
		return nil, fmt.Errorf("function %s has no trigger binding", functionName)
	}

	switch trigger.Type {
	case registry.TypeHTTPTrigger:
		return a.HTTPHandler(fn), nil
	case registry.TypeQueueTrigger:
		return a.SQSHandler(fn), nil
	default:
		return nil, fmt.Errorf("function %s: unsupported trigger type %s", functionName, trigger.Type)
	}
}

// HTTPHandler serves an httpTrigger function behind an API Gateway HTTP API.
func (a *Adapter) HTTPHandler(fn *registry.Function) func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	trigger := fn.Trigger()
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		body := event.Body
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: "invalid request body"}, nil
			}
			body = string(decoded)
		}

		headers := make(map[string][]string, len(event.Headers))
		for k, v := range event.Headers {
			headers[http.CanonicalHeaderKey(k)] = []string{v}
		}
		query := event.QueryStringParameters
		if query == nil {
			query = map[string]string{}
		}

		url := fmt.Sprintf("https://%s%s", event.RequestContext.DomainName, event.RawPath)
		if event.RawQueryString != "" {
			url += "?" + event.RawQueryString
		}

		data, err := json.Marshal(&binding.HTTPRequest{
			URL:     url,
			Method:  event.RequestContext.HTTP.Method,
			Query:   query,
			Headers: headers,
			Params:  event.PathParameters,
			Body:    body,
		})
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}

		resp, err := a.invoke(ctx, fn, event.RequestContext.RequestID, &binding.InvokeRequest{
			Data:     map[string]json.RawMessage{trigger.Name: data},
			Metadata: map[string]json.RawMessage{"sys": binding.SysMetadata(fn.Name)},
		})
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}

		res := &binding.HTTPResponse{StatusCode: http.StatusOK}
		for _, output := range fn.Outputs(registry.TypeHTTP) {
			if raw, ok := resp.Outputs[output.Name]; ok {
				if res, err = binding.HTTPResponseOutput(raw); err != nil {
					return events.APIGatewayV2HTTPResponse{}, err
				}
			}
		}
		if res.StatusCode == 0 {
			res.StatusCode = http.StatusOK
		}

		return events.APIGatewayV2HTTPResponse{
			StatusCode: res.StatusCode,
			Headers:    res.Headers,
			Body:       res.Body,
		}, nil
	}
}

// SQSHandler serves a queueTrigger function from an SQS event source. Failed
// records are reported as batch item failures and redelivered by SQS.
func (a *Adapter) SQSHandler(fn *registry.Function) func(context.Context, events.SQSEvent) (events.SQSEventResponse, error) {
	trigger := fn.Trigger()
	return func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		response := events.SQSEventResponse{}
		for _, record := range event.Records {
			dequeueCount, err := strconv.Atoi(record.Attributes["ApproximateReceiveCount"])
			if err != nil {
				dequeueCount = 1
			}

			req := &binding.InvokeRequest{
				Data: map[string]json.RawMessage{trigger.Name: binding.EncodeQueueMessage(record.Body)},
				Metadata: map[string]json.RawMessage{
					"Id":           binding.Metadata(record.MessageId),
					"DequeueCount": binding.Metadata(dequeueCount),
					"sys":          binding.SysMetadata(fn.Name),
				},
			}
			if _, err := a.invoke(ctx, fn, record.MessageId, req); err != nil {
				a.logger.WithError(err).WithField("message_id", record.MessageId).Error("failed to process record")
				response.BatchItemFailures = append(response.BatchItemFailures, events.SQSBatchItemFailure{
					ItemIdentifier: record.MessageId,
				})
			}
		}
		return response, nil
	}
}

func (a *Adapter) invoke(ctx context.Context, fn *registry.Function, invocationID string, req *binding.InvokeRequest) (*binding.InvokeResponse, error) {
	handler, ok := a.handlers[fn.Name]
	if !ok {
		return nil, funcleterrors.NewFunctionNotFoundError(fn.Name)
	}

	logger := a.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.WithField("aws_request_id", lc.AwsRequestID)
	}

	fc := binding.NewContext(fn.Name, invocationID, req, logger)
	if err := handler(ctx, fc); err != nil {
		return nil, err
	}

	resp, err := fc.Response(nil)
	if err != nil {
		return nil, err
	}

	for _, output := range fn.Outputs(registry.TypeQueue) {
		raw, ok := resp.Outputs[output.Name]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := a.publisher.Publish(ctx, output.QueueName, binding.DecodeQueueMessage(raw)); err != nil {
			return nil, fmt.Errorf("failed to write output binding %s: %w", output.Name, err)
		}
	}
	return resp, nil
}
