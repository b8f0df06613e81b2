package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/nyambati/funclet/internal/binding"
	"github.com/nyambati/funclet/internal/config"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/httpserver"
	"github.com/nyambati/funclet/internal/middleware"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/nyambati/funclet/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	HealthPath   = "/admin/health"
	MessagesPath = "/admin/queues/{queue}/messages"
	MetricsPath  = "/metrics"
)

func NewAPIGateway(
	cfg *config.Config,
	reg registry.FunctionRegistryInterface,
	sched scheduler.SchedulerInterface,
	queues queue.ServiceInterface,
	logger *logrus.Logger,
) GatewayInterface {
	g := &APIGateway{
		config:    &cfg.Gateway,
		timeout:   cfg.Invoke.Timeout,
		registry:  reg,
		scheduler: sched,
		queues:    queues,
		logger:    logger.WithField("component", "gateway"),
		router:    mux.NewRouter(),
	}
	g.registerRoutes(context.Background())
	return g
}

func (g *APIGateway) registerRoutes(ctx context.Context) {
	g.router.Use(middleware.Logging("host", g.logger))
	g.router.HandleFunc(HealthPath, g.handleHealthCheck()).Methods(http.MethodGet)
	g.router.HandleFunc(MessagesPath, g.handleEnqueue()).Methods(http.MethodPost)
	g.router.Handle(MetricsPath, promhttp.Handler()).Methods(http.MethodGet)

	for _, fn := range g.registry.ListFunctions(ctx) {
		if route := fn.Route(); route != "" {
			g.logger.WithFields(logrus.Fields{
				"methods":  fn.Methods(),
				"path":     path.Join("/", g.config.RoutePrefix, route),
				"function": fn.Name,
			}).Info("registering route")
		}
	}
	g.router.PathPrefix(g.routePrefix()).HandlerFunc(g.handleRequest())
}

// routePrefix is the path under which function routes are served, with a
// trailing slash.
func (g *APIGateway) routePrefix() string {
	prefix := path.Join("/", g.config.RoutePrefix)
	if prefix == "/" {
		return prefix
	}
	return prefix + "/"
}

func (g *APIGateway) Handler() http.Handler {
	return g.router
}

func (g *APIGateway) Start(ctx context.Context) error {
	g.logger.Infof("starting gateway on port %s", g.config.Port)
	return httpserver.Run(ctx, ":"+g.config.Port, g.router, g.logger)
}

func (g *APIGateway) handleRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := g.logger.WithFields(logrus.Fields{
			"path":   r.URL.Path,
			"method": r.Method,
		})

		route := strings.TrimPrefix(r.URL.Path, g.routePrefix())
		fn, exists := g.registry.HTTPRoute(r.Context(), route)
		if !exists {
			http.NotFound(w, r)
			return
		}
		if !slices.Contains(fn.Methods(), r.Method) {
			w.Header().Set("Allow", strings.Join(fn.Methods(), ", "))
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		trigger := *fn.Trigger()
		logger = logger.WithField("function", fn.Name)

		defer r.Body.Close()

		req, err := g.buildInvokeRequest(r, fn, trigger)
		if err != nil {
			logger.WithError(err).Warn("failed to build invocation request")
			http.Error(w, "failed to read request", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), g.timeout)
		defer cancel()

		resp, err := g.scheduler.Invoke(ctx, fn.Name, req)
		if err != nil {
			logger.WithError(err).Error("failed to invoke function")
			http.Error(w, "failed to process request", http.StatusBadGateway)
			return
		}

		res, err := httpOutput(fn, resp)
		if err != nil {
			logger.WithError(err).Error("invalid http output binding")
			http.Error(w, "failed to process request", http.StatusBadGateway)
			return
		}

		for k, v := range res.Headers {
			w.Header().Set(k, v)
		}
		if w.Header().Get("Content-Type") == "" && res.Body != "" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		status := res.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, res.Body)

		logger.WithField("duration", time.Since(start)).Info("successfully routed request")
	}
}

// buildInvokeRequest converts an inbound request into httpTrigger binding data.
func (g *APIGateway) buildInvokeRequest(r *http.Request, fn *registry.Function, trigger registry.Binding) (*binding.InvokeRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	data, err := json.Marshal(&binding.HTTPRequest{
		URL:     fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.RequestURI()),
		Method:  r.Method,
		Query:   query,
		Headers: r.Header,
		Params:  map[string]string{},
		Body:    string(body),
	})
	if err != nil {
		return nil, err
	}

	return &binding.InvokeRequest{
		Data: map[string]json.RawMessage{trigger.Name: data},
		Metadata: map[string]json.RawMessage{
			"Query":   binding.Metadata(query),
			"Headers": binding.Metadata(extractHeaders(r)),
			"sys":     binding.SysMetadata(fn.Name),
		},
	}, nil
}

// httpOutput returns the function's http output binding. A function without
// one answers with an empty 200.
func httpOutput(fn *registry.Function, resp *binding.InvokeResponse) (*binding.HTTPResponse, error) {
	for _, output := range fn.Outputs(registry.TypeHTTP) {
		if raw, ok := resp.Outputs[output.Name]; ok {
			return binding.HTTPResponseOutput(raw)
		}
	}
	return &binding.HTTPResponse{StatusCode: http.StatusOK}, nil
}

func extractHeaders(r *http.Request) map[string]string {
	headers := make(map[string]string)
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}
	return headers
}

func (g *APIGateway) handleEnqueue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queueName := mux.Vars(r)["queue"]
		defer r.Body.Close()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		msg, err := g.queues.Enqueue(r.Context(), queueName, string(body))
		if err != nil {
			var full *funcleterrors.QueueFullError
			var closed *funcleterrors.QueueClosedError
			if errors.As(err, &full) || errors.As(err, &closed) {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":    msg.ID,
			"queue": queueName,
		})
	}
}

func (g *APIGateway) handleHealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}
