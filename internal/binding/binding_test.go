package binding_test

import (
	"encoding/json"
	"testing"

	"github.com/nyambati/funclet/internal/binding"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, data map[string]json.RawMessage) (*binding.Context, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	req := &binding.InvokeRequest{Data: data}
	return binding.NewContext("Fn", "inv-1", req, logrus.NewEntry(logger)), hook
}

func TestContextLog(t *testing.T) {
	fc, hook := newContext(t, nil)

	fc.Log("** QUEUE **", "q:Alice")
	fc.Logf("count=%d", 2)

	assert.Equal(t, []string{"** QUEUE ** q:Alice", "count=2"}, fc.Logs())
	require.Len(t, hook.AllEntries(), 2)
	entry := hook.AllEntries()[0]
	assert.Equal(t, "** QUEUE ** q:Alice", entry.Message)
	assert.Equal(t, "Fn", entry.Data["function"])
	assert.Equal(t, "inv-1", entry.Data["invocation_id"])
}

func TestNewContextGeneratesInvocationID(t *testing.T) {
	fc := binding.NewContext("Fn", "", nil, logrus.NewEntry(logrus.New()))
	assert.NotEmpty(t, fc.InvocationID)
}

func TestContextResponse(t *testing.T) {
	fc, _ := newContext(t, nil)

	fc.Log("hello")
	fc.SetOutput("outputQueueItem", "q:first")
	fc.SetOutput("outputQueueItem", "q:Carol")
	fc.SetOutput("res", &binding.HTTPResponse{StatusCode: 200, Body: "Hello there, Carol"})

	resp, err := fc.Response(nil)
	require.NoError(t, err)

	assert.JSONEq(t, `"q:Carol"`, string(resp.Outputs["outputQueueItem"]))
	assert.JSONEq(t, `{"statusCode":200,"body":"Hello there, Carol"}`, string(resp.Outputs["res"]))
	assert.Equal(t, []string{"hello"}, resp.Logs)
	assert.Nil(t, resp.ReturnValue)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"ReturnValue":null`)
}

func TestContextHTTPRequest(t *testing.T) {
	fc, _ := newContext(t, map[string]json.RawMessage{
		"req": json.RawMessage(`{"Url":"http://localhost/api/HttpExample","Method":"POST","Body":"{\"name\":\"Bob\"}"}`),
	})

	req, err := fc.HTTPRequest("req")
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, `{"name":"Bob"}`, req.Body)
	assert.NotNil(t, req.Query)

	_, err = fc.HTTPRequest("missing")
	assert.Error(t, err)
}

func TestDecodeQueueMessage(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "JSONString", data: `"q:Alice"`, want: "q:Alice"},
		{name: "QuotedText", data: `"\"q:Alice\""`, want: `"q:Alice"`},
		{name: "RawText", data: `q:Alice`, want: "q:Alice"},
		{name: "JSONObject", data: `{"a":1}`, want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, binding.DecodeQueueMessage(json.RawMessage(tt.data)))
		})
	}
}

func TestQueueMessageRoundTrip(t *testing.T) {
	for _, body := range []string{"q:Bob", `"hi"`, `"`, `{"a":1}`, ""} {
		assert.Equal(t, body, binding.DecodeQueueMessage(binding.EncodeQueueMessage(body)))
	}
}

func TestHTTPResponseOutput(t *testing.T) {
	resp, err := binding.HTTPResponseOutput(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.StatusCode)

	resp, err = binding.HTTPResponseOutput(json.RawMessage(`{"statusCode":201,"body":"ok","headers":{"X-A":"b"}}`))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "ok", resp.Body)
	assert.Equal(t, "b", resp.Headers["X-A"])

	_, err = binding.HTTPResponseOutput(json.RawMessage(`[1]`))
	assert.Error(t, err)
}
