package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks HTTP requests served by the worker and the host.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funclet_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"server", "method", "code"},
	)

	// HTTPRequestDurationSeconds tracks HTTP request latency.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funclet_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"server"},
	)

	FunctionInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funclet_function_invocations_total",
			Help: "Total number of function invocations",
		},
		[]string{"function_name", "result"},
	)

	FunctionDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funclet_function_duration_seconds",
			Help:    "Duration of function invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"function_name"},
	)

	QueueMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funclet_queue_messages_total",
			Help: "Total number of queue messages by outcome",
		},
		[]string{"queue", "outcome"},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "funclet_queue_depth",
			Help: "Number of messages waiting in a queue",
		},
		[]string{"queue"},
	)
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	OutcomeEnqueued  = "enqueued"
	OutcomeRejected  = "rejected"
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// RecordFunctionInvocation records a function invocation with its duration and result
func RecordFunctionInvocation(functionName string, err error, duration float64) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	FunctionInvocationsTotal.WithLabelValues(functionName, result).Inc()
	FunctionDurationSeconds.WithLabelValues(functionName).Observe(duration)
}

// RecordHTTPRequest records a request handled by server ("worker" or "host")
func RecordHTTPRequest(server, method string, statusCode int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(server, method, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(server).Observe(duration)
}

func RecordQueueMessage(queue, outcome string) {
	QueueMessagesTotal.WithLabelValues(queue, outcome).Inc()
}

func UpdateQueueDepth(queue string, depth int) {
	QueueDepth.WithLabelValues(queue).Set(float64(depth))
}
