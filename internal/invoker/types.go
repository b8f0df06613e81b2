package invoker

import (
	"context"
	"net/http"

	"github.com/nyambati/funclet/internal/binding"
	"github.com/sirupsen/logrus"
)

type InvokerInterface interface {
	Invoke(ctx context.Context, functionName string, req *binding.InvokeRequest) (*binding.InvokeResponse, error)
}

// Invoker delivers invocations to a custom handler worker over HTTP.
type Invoker struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Entry
}
