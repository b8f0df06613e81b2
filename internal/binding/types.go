package binding

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// InvokeRequest is the payload the Functions host posts to a custom handler.
type InvokeRequest struct {
	Data     map[string]json.RawMessage `json:"Data"`
	Metadata map[string]json.RawMessage `json:"Metadata"`
}

// InvokeResponse is what a custom handler returns to the Functions host.
type InvokeResponse struct {
	Outputs     map[string]json.RawMessage `json:"Outputs"`
	Logs        []string                   `json:"Logs"`
	ReturnValue json.RawMessage            `json:"ReturnValue"`
}

// HTTPRequest is the data of an httpTrigger input binding.
type HTTPRequest struct {
	URL     string              `json:"Url"`
	Method  string              `json:"Method"`
	Query   map[string]string   `json:"Query"`
	Headers map[string][]string `json:"Headers"`
	Params  map[string]string   `json:"Params"`
	Body    string              `json:"Body"`
}

// HTTPResponse is the value of an http output binding. A zero StatusCode means 200.
type HTTPResponse struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// QueueMetadata is the trigger metadata sent with a queue message.
type QueueMetadata struct {
	ID            string `json:"Id"`
	DequeueCount  int    `json:"DequeueCount"`
	InsertionTime string `json:"InsertionTime"`
}

// Context is handed to every function invocation. It is the only way a
// function reaches logging and output bindings.
type Context struct {
	FunctionName string
	InvocationID string
	request      *InvokeRequest
	logger       *logrus.Entry
	mutex        sync.Mutex
	outputs      map[string]any
	logs         []string
}
