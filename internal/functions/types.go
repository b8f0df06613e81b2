package functions

import (
	"context"

	"github.com/nyambati/funclet/internal/binding"
)

// Handler runs one invocation. Returning an error fails the invocation and
// leaves the outcome (5xx, redelivery) to the host.
type Handler func(ctx context.Context, fc *binding.Context) error

const (
	HTTPExampleName  = "HttpExample"
	QueueExampleName = "QueueExample"

	RequestBinding     = "req"
	ResponseBinding    = "res"
	OutputQueueBinding = "outputQueueItem"
	QueueInputBinding  = "myQueue"
)

// Handlers returns every function this worker serves, keyed by function name.
func Handlers() map[string]Handler {
	return map[string]Handler{
		HTTPExampleName:  HTTPExample,
		QueueExampleName: QueueExample,
	}
}
