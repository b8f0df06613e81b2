package scheduler

import (
	"context"
	"time"

	"github.com/nyambati/funclet/internal/binding"
	"github.com/nyambati/funclet/internal/invoker"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/sirupsen/logrus"
)

type SchedulerInterface interface {
	Invoke(ctx context.Context, functionName string, req *binding.InvokeRequest) (*binding.InvokeResponse, error)
	Start(ctx context.Context) error
}

// Scheduler sends invocations to the worker, routes queue output bindings
// and feeds queue-triggered functions.
type Scheduler struct {
	registry registry.FunctionRegistryInterface
	invoker  invoker.InvokerInterface
	queues   queue.ServiceInterface
	timeout  time.Duration
	logger   *logrus.Entry
}
