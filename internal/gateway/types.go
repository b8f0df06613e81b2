package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nyambati/funclet/internal/config"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/nyambati/funclet/internal/scheduler"
	"github.com/sirupsen/logrus"
)

type GatewayInterface interface {
	Start(ctx context.Context) error
	Handler() http.Handler
}

// APIGateway is the local stand-in for the platform's HTTP trigger front door.
type APIGateway struct {
	config    *config.Gateway
	timeout   time.Duration
	registry  registry.FunctionRegistryInterface
	scheduler scheduler.SchedulerInterface
	queues    queue.ServiceInterface
	logger    *logrus.Entry
	router    *mux.Router
}
