package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nyambati/funclet/internal/binding"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/invoker"
	"github.com/nyambati/funclet/internal/metrics"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/sirupsen/logrus"
)

var _ SchedulerInterface = (*Scheduler)(nil)

func NewScheduler(
	reg registry.FunctionRegistryInterface,
	inv invoker.InvokerInterface,
	queues queue.ServiceInterface,
	timeout time.Duration,
	logger *logrus.Entry,
) SchedulerInterface {
	return &Scheduler{
		registry: reg,
		invoker:  inv,
		queues:   queues,
		timeout:  timeout,
		logger:   logger.WithField("component", "scheduler"),
	}
}

// Invoke runs functionName on the worker and enqueues its queue outputs.
func (s *Scheduler) Invoke(ctx context.Context, functionName string, req *binding.InvokeRequest) (*binding.InvokeResponse, error) {
	logger := s.logger.WithField("function", functionName)

	fn, exists := s.registry.GetFunction(ctx, functionName)
	if !exists {
		return nil, funcleterrors.NewFunctionNotFoundError(functionName)
	}

	resp, err := s.invoker.Invoke(ctx, functionName, req)
	if err != nil {
		logger.WithError(err).Error("failed to invoke function")
		return nil, err
	}

	for _, line := range resp.Logs {
		logger.WithField("source", "worker").Debug(line)
	}

	if err := s.routeOutputs(ctx, fn, resp); err != nil {
		return nil, err
	}

	logger.Debug("function invoked successfully")
	return resp, nil
}

func (s *Scheduler) routeOutputs(ctx context.Context, fn *registry.Function, resp *binding.InvokeResponse) error {
	for _, output := range fn.Outputs(registry.TypeQueue) {
		raw, ok := resp.Outputs[output.Name]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			continue
		}

		msg, err := s.queues.Enqueue(ctx, output.QueueName, binding.DecodeQueueMessage(raw))
		if err != nil {
			return fmt.Errorf("failed to write output binding %s: %w", output.Name, err)
		}
		s.logger.WithFields(logrus.Fields{
			"function":   fn.Name,
			"binding":    output.Name,
			"queue":      output.QueueName,
			"message_id": msg.ID,
		}).Info("queued output binding")
	}
	return nil
}

// Start consumes every queue that triggers a function until ctx is cancelled
// or the queues are closed.
func (s *Scheduler) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, queueName := range s.triggerQueues(ctx) {
		for _, fn := range s.registry.QueueTriggers(ctx, queueName) {
			trigger := fn.Trigger()

			s.logger.WithFields(logrus.Fields{
				"function": fn.Name,
				"queue":    queueName,
			}).Info("starting queue trigger")

			wg.Add(1)
			go func(fn *registry.Function, trigger registry.Binding) {
				defer wg.Done()
				s.consume(ctx, fn, trigger)
			}(fn, *trigger)
		}
	}

	wg.Wait()
	return nil
}

// triggerQueues lists the distinct queue names bound to queueTrigger inputs.
func (s *Scheduler) triggerQueues(ctx context.Context) []string {
	seen := make(map[string]bool)
	var names []string
	for _, fn := range s.registry.ListFunctions(ctx) {
		trigger := fn.Trigger()
		if trigger == nil || trigger.Type != registry.TypeQueueTrigger || seen[trigger.QueueName] {
			continue
		}
		seen[trigger.QueueName] = true
		names = append(names, trigger.QueueName)
	}
	return names
}

func (s *Scheduler) consume(ctx context.Context, fn *registry.Function, trigger registry.Binding) {
	logger := s.logger.WithFields(logrus.Fields{"function": fn.Name, "queue": trigger.QueueName})
	for {
		msg, err := s.queues.Dequeue(ctx, trigger.QueueName)
		if err != nil {
			var closed *funcleterrors.QueueClosedError
			if ctx.Err() != nil || errors.As(err, &closed) {
				logger.Info("stopping queue trigger")
				return
			}
			logger.WithError(err).Error("failed to dequeue message")
			continue
		}

		if err := s.Deliver(ctx, fn, trigger, msg); err != nil {
			logger.WithError(err).WithField("message_id", msg.ID).Error("failed to deliver queue message")
		}
	}
}

// Deliver invokes fn with msg as its queue trigger input. Failed deliveries
// are not retried.
func (s *Scheduler) Deliver(ctx context.Context, fn *registry.Function, trigger registry.Binding, msg *queue.Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := &binding.InvokeRequest{
		Data: map[string]json.RawMessage{
			trigger.Name: binding.EncodeQueueMessage(msg.Body),
		},
		Metadata: map[string]json.RawMessage{
			"Id":            binding.Metadata(msg.ID),
			"DequeueCount":  binding.Metadata(msg.DequeueCount),
			"InsertionTime": binding.Metadata(msg.InsertionTime.Format(time.RFC3339Nano)),
			"sys":           binding.SysMetadata(fn.Name),
		},
	}

	if _, err := s.Invoke(ctx, fn.Name, req); err != nil {
		metrics.RecordQueueMessage(trigger.QueueName, metrics.OutcomeFailed)
		return err
	}
	metrics.RecordQueueMessage(trigger.QueueName, metrics.OutcomeDelivered)
	return nil
}
