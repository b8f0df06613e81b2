package lambda

import (
	"github.com/nyambati/funclet/internal/functions"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/sirupsen/logrus"
)

// Adapter runs functions in-process under AWS Lambda event sources. Queue
// output bindings are forwarded to a publisher.
type Adapter struct {
	registry  registry.FunctionRegistryInterface
	handlers  map[string]functions.Handler
	publisher queue.Publisher
	logger    *logrus.Entry
}
