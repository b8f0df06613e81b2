package binding

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// InvocationIDHeader carries the invocation id on custom handler requests.
	InvocationIDHeader = "X-Azure-Functions-InvocationId"
)

func NewContext(functionName, invocationID string, request *InvokeRequest, logger *logrus.Entry) *Context {
	if invocationID == "" {
		invocationID = uuid.NewString()
	}
	if request == nil {
		request = &InvokeRequest{}
	}
	return &Context{
		FunctionName: functionName,
		InvocationID: invocationID,
		request:      request,
		logger: logger.WithFields(logrus.Fields{
			"function":      functionName,
			"invocation_id": invocationID,
		}),
		outputs: make(map[string]any),
	}
}

// Log writes its operands separated by spaces and records the line for the host.
func (c *Context) Log(args ...any) {
	c.record(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (c *Context) Logf(format string, args ...any) {
	c.record(fmt.Sprintf(format, args...))
}

func (c *Context) record(line string) {
	c.mutex.Lock()
	c.logs = append(c.logs, line)
	c.mutex.Unlock()
	c.logger.Info(line)
}

func (c *Context) Logs() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]string(nil), c.logs...)
}

// SetOutput sets the value of the named output binding, replacing any earlier value.
func (c *Context) SetOutput(name string, value any) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.outputs[name] = value
}

func (c *Context) Output(name string) (any, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	value, ok := c.outputs[name]
	return value, ok
}

func (c *Context) Input(name string) (json.RawMessage, bool) {
	data, ok := c.request.Data[name]
	return data, ok
}

// HTTPRequest decodes the named httpTrigger input binding.
func (c *Context) HTTPRequest(name string) (*HTTPRequest, error) {
	data, ok := c.Input(name)
	if !ok {
		return nil, fmt.Errorf("input binding %s not present", name)
	}
	req := &HTTPRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("failed to decode http binding %s: %w", name, err)
	}
	if req.Query == nil {
		req.Query = map[string]string{}
	}
	return req, nil
}

// QueueMessage returns the named queueTrigger input binding as text.
func (c *Context) QueueMessage(name string) (string, error) {
	data, ok := c.Input(name)
	if !ok {
		return "", fmt.Errorf("input binding %s not present", name)
	}
	return DecodeQueueMessage(data), nil
}

// Response builds the custom handler response from the outputs and logs
// collected so far.
func (c *Context) Response(returnValue any) (*InvokeResponse, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	resp := &InvokeResponse{
		Outputs: make(map[string]json.RawMessage, len(c.outputs)),
		Logs:    append([]string{}, c.logs...),
	}
	for name, value := range c.outputs {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode output binding %s: %w", name, err)
		}
		resp.Outputs[name] = raw
	}
	if returnValue != nil {
		raw, err := json.Marshal(returnValue)
		if err != nil {
			return nil, fmt.Errorf("failed to encode return value: %w", err)
		}
		resp.ReturnValue = raw
	}
	return resp, nil
}

// DecodeQueueMessage unquotes a JSON string payload once and returns anything
// else verbatim.
func DecodeQueueMessage(data json.RawMessage) string {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return string(data)
	}
	return text
}

// EncodeQueueMessage is the inverse of DecodeQueueMessage for text payloads.
func EncodeQueueMessage(body string) json.RawMessage {
	raw, _ := json.Marshal(body)
	return raw
}

// HTTPResponseOutput decodes an http output binding value.
func HTTPResponseOutput(raw json.RawMessage) (*HTTPResponse, error) {
	resp := &HTTPResponse{}
	if len(raw) == 0 || string(raw) == "null" {
		return resp, nil
	}
	if err := json.Unmarshal(raw, resp); err != nil {
		return nil, fmt.Errorf("failed to decode http output: %w", err)
	}
	return resp, nil
}

// Metadata encodes v as an InvokeRequest metadata entry.
func Metadata(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return raw
}

// SysMetadata is the "sys" metadata entry the host attaches to every invocation.
func SysMetadata(methodName string) json.RawMessage {
	return Metadata(map[string]string{
		"MethodName": methodName,
		"UtcNow":     time.Now().UTC().Format(time.RFC3339Nano),
		"RandGuid":   uuid.NewString(),
	})
}
