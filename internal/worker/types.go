package worker

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nyambati/funclet/internal/functions"
	"github.com/sirupsen/logrus"
)

type WorkerInterface interface {
	Start(ctx context.Context) error
	Handler() http.Handler
}

// Worker is the custom handler process: it receives invocations from the
// Functions host and runs the matching function.
type Worker struct {
	port     string
	handlers map[string]functions.Handler
	logger   *logrus.Entry
	router   *mux.Router
}
