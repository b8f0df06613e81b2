package lambda_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/nyambati/funclet/internal/binding"
	"github.com/nyambati/funclet/internal/config"
	"github.com/nyambati/funclet/internal/functions"
	"github.com/nyambati/funclet/internal/lambda"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	queue string
	body  string
}

type fakePublisher struct {
	mutex    sync.Mutex
	err      error
	messages []published
}

func (p *fakePublisher) Publish(ctx context.Context, queueName, body string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{queue: queueName, body: body})
	return nil
}

func newAdapter(t *testing.T, handlers map[string]functions.Handler, publisher *fakePublisher) (*lambda.Adapter, registry.FunctionRegistryInterface) {
	t.Helper()
	logger := logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	reg := registry.NewRegistry(t.TempDir()+"/functions.yaml", config.Queue{Name: "outqueue"}, logger)
	return lambda.NewAdapter(reg, handlers, publisher, logger), reg
}

func httpEvent(query map[string]string, body string, base64Body bool) events.APIGatewayV2HTTPRequest {
	if base64Body {
		body = base64.StdEncoding.EncodeToString([]byte(body))
	}
	return events.APIGatewayV2HTTPRequest{
		RawPath:               "/api/HttpExample",
		QueryStringParameters: query,
		Body:                  body,
		IsBase64Encoded:       base64Body,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: "example.execute-api.us-east-1.amazonaws.com",
			RequestID:  "req-1",
			HTTP:       events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: "POST"},
		},
	}
}

func TestHTTPHandler(t *testing.T) {
	tests := []struct {
		name      string
		event     events.APIGatewayV2HTTPRequest
		wantBody  string
		wantQueue string
	}{
		{
			name:      "TestQueryName",
			event:     httpEvent(map[string]string{"name": "Carol"}, "", false),
			wantBody:  "Hello there, Carol",
			wantQueue: "q:Carol",
		},
		{
			name:      "TestBase64BodyName",
			event:     httpEvent(nil, `{"name":"Bob"}`, true),
			wantBody:  "Hello there, Bob",
			wantQueue: "q:Bob",
		},
		{
			name:      "TestNoName",
			event:     httpEvent(nil, `{}`, false),
			wantBody:  "Hello",
			wantQueue: "q:undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &fakePublisher{}
			adapter, _ := newAdapter(t, functions.Handlers(), publisher)

			h, err := adapter.Handler(context.Background(), functions.HTTPExampleName)
			require.NoError(t, err)
			handler, ok := h.(func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error))
			require.True(t, ok)

			resp, err := handler(context.Background(), tt.event)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, tt.wantBody, resp.Body)
			assert.Equal(t, []published{{queue: "outqueue", body: tt.wantQueue}}, publisher.messages)
		})
	}
}

func TestHTTPHandlerPublishFailure(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("host unreachable")}
	adapter, reg := newAdapter(t, functions.Handlers(), publisher)
	fn, _ := reg.GetFunction(context.Background(), functions.HTTPExampleName)

	_, err := adapter.HTTPHandler(fn)(context.Background(), httpEvent(map[string]string{"name": "Carol"}, "", false))
	assert.ErrorContains(t, err, "host unreachable")
}

func TestSQSHandler(t *testing.T) {
	var received []string
	handlers := map[string]functions.Handler{
		functions.QueueExampleName: func(ctx context.Context, fc *binding.Context) error {
			msg, err := fc.QueueMessage(functions.QueueInputBinding)
			if err != nil {
				return err
			}
			if msg == "poison" {
				return errors.New("cannot process")
			}
			received = append(received, msg)
			return functions.QueueExample(ctx, fc)
		},
	}
	adapter, _ := newAdapter(t, handlers, &fakePublisher{})

	h, err := adapter.Handler(context.Background(), functions.QueueExampleName)
	require.NoError(t, err)
	handler, ok := h.(func(context.Context, events.SQSEvent) (events.SQSEventResponse, error))
	require.True(t, ok)

	resp, err := handler(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m1", Body: "q:Alice", Attributes: map[string]string{"ApproximateReceiveCount": "1"}},
		{MessageId: "m2", Body: "poison"},
		{MessageId: "m3", Body: `"hi"`},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"q:Alice", `"hi"`}, received)
	require.Len(t, resp.BatchItemFailures, 1)
	assert.Equal(t, "m2", resp.BatchItemFailures[0].ItemIdentifier)
}

func TestHandlerUnknownFunction(t *testing.T) {
	adapter, _ := newAdapter(t, functions.Handlers(), &fakePublisher{})
	_, err := adapter.Handler(context.Background(), "Missing")
	assert.Error(t, err)
}
