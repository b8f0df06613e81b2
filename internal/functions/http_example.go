package functions

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/nyambati/funclet/internal/binding"
)

const (
	HTTPMarker      = "** HTTP **"
	greetingPrefix  = "Hello there, "
	defaultGreeting = "Hello"
	queueItemPrefix = "q:"

	// missingName is what an absent name renders as in the queue item.
	missingName = "undefined"
)

// HTTPExample greets the caller and queues "q:<name>" on the output queue.
func HTTPExample(ctx context.Context, fc *binding.Context) error {
	fc.Log(HTTPMarker)

	req, err := fc.HTTPRequest(RequestBinding)
	if err != nil {
		return err
	}

	name, ok := ResolveName(req)
	fc.SetOutput(OutputQueueBinding, QueueItem(name, ok))
	fc.SetOutput(ResponseBinding, &binding.HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       Greeting(name, ok),
	})
	return nil
}

// ResolveName prefers a non-empty "name" query parameter and falls back to a
// truthy "name" member of a JSON object body.
func ResolveName(req *binding.HTTPRequest) (string, bool) {
	if name := req.Query["name"]; name != "" {
		return name, true
	}
	if req.Body == "" {
		return "", false
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return "", false
	}
	value, present := body["name"]
	if !present {
		return "", false
	}
	return coerce(value)
}

func Greeting(name string, ok bool) string {
	if !ok {
		return defaultGreeting
	}
	return greetingPrefix + name
}

func QueueItem(name string, ok bool) string {
	if !ok {
		return queueItemPrefix + missingName
	}
	return queueItemPrefix + name
}

// coerce renders a decoded JSON value as text and reports whether it is truthy.
func coerce(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case float64:
		return formatNumber(v), v != 0 && !math.IsNaN(v)
	case bool:
		return strconv.FormatBool(v), v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				parts = append(parts, "")
				continue
			}
			text, _ := coerce(item)
			parts = append(parts, text)
		}
		return strings.Join(parts, ","), true
	case map[string]any:
		return "[object Object]", true
	default:
		return "", false
	}
}

// formatNumber uses plain notation for magnitudes in [1e-6, 1e21) and an
// unpadded exponent otherwise, so 1.5e-7 stays "1.5e-7".
func formatNumber(v float64) string {
	if abs := math.Abs(v); abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
}
