package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nyambati/funclet/internal/binding"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/functions"
	"github.com/nyambati/funclet/internal/httpserver"
	"github.com/nyambati/funclet/internal/metrics"
	"github.com/nyambati/funclet/internal/middleware"
	"github.com/sirupsen/logrus"
)

const HealthPath = "/health"

func NewWorker(port string, handlers map[string]functions.Handler, logger *logrus.Logger) WorkerInterface {
	w := &Worker{
		port:     port,
		handlers: handlers,
		logger:   logger.WithField("component", "worker"),
		router:   mux.NewRouter(),
	}
	w.registerRoutes()
	return w
}

func (w *Worker) registerRoutes() {
	w.router.Use(middleware.Logging("worker", w.logger))
	w.router.HandleFunc(HealthPath, w.handleHealthCheck()).Methods(http.MethodGet)
	for name := range w.handlers {
		w.logger.WithField("function", name).Info("registering function")
	}
	w.router.HandleFunc("/{function}", w.handleInvoke()).Methods(http.MethodPost)
}

func (w *Worker) Handler() http.Handler {
	return w.router
}

func (w *Worker) Start(ctx context.Context) error {
	w.logger.Infof("starting custom handler on port %s", w.port)
	return httpserver.Run(ctx, ":"+w.port, w.router, w.logger)
}

func (w *Worker) handleInvoke() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()
		name := mux.Vars(r)["function"]
		logger := w.logger.WithField("function", name)

		handler, ok := w.handlers[name]
		if !ok {
			err := funcleterrors.NewFunctionNotFoundError(name)
			logger.Warn(err.Error())
			http.Error(rw, err.Error(), http.StatusNotFound)
			return
		}

		defer r.Body.Close()

		req := &binding.InvokeRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			logger.WithError(err).Warn("failed to decode invocation request")
			http.Error(rw, "invalid invocation request", http.StatusBadRequest)
			return
		}

		fc := binding.NewContext(name, r.Header.Get(binding.InvocationIDHeader), req, w.logger)
		err := handler(r.Context(), fc)
		metrics.RecordFunctionInvocation(name, err, time.Since(start).Seconds())
		if err != nil {
			logger.WithError(err).Error("function invocation failed")
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}

		resp, err := fc.Response(nil)
		if err != nil {
			logger.WithError(err).Error("failed to build invocation response")
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}

		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(rw).Encode(resp)

		logger.WithFields(logrus.Fields{
			"invocation_id": fc.InvocationID,
			"duration":      time.Since(start),
		}).Info("function invoked successfully")
	}
}

func (w *Worker) handleHealthCheck() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("OK"))
	}
}
