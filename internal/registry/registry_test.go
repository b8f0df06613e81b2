package registry_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nyambati/funclet/internal/config"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/functions"
	"github.com/nyambati/funclet/internal/registry"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var queue = config.Queue{Name: "outqueue", Connection: "AzureWebJobsStorage"}

func newRegistry(t *testing.T, path string) registry.FunctionRegistryInterface {
	t.Helper()
	logger := logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	return registry.NewRegistry(path, queue, logger)
}

func TestDefaultFunctions(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t, filepath.Join(t.TempDir(), "functions.yaml"))

	fns := reg.ListFunctions(ctx)
	require.Len(t, fns, 2)
	assert.Equal(t, functions.HTTPExampleName, fns[0].Name)
	assert.Equal(t, functions.QueueExampleName, fns[1].Name)

	httpFn, ok := reg.GetFunction(ctx, functions.HTTPExampleName)
	require.True(t, ok)
	assert.Equal(t, "HttpExample", httpFn.Route())
	assert.Equal(t, []string{"GET", "POST"}, httpFn.Methods())

	outputs := httpFn.Outputs(registry.TypeQueue)
	require.Len(t, outputs, 1)
	assert.Equal(t, functions.OutputQueueBinding, outputs[0].Name)
	assert.Equal(t, "outqueue", outputs[0].QueueName)

	triggered := reg.QueueTriggers(ctx, outputs[0].QueueName)
	require.Len(t, triggered, 1)
	assert.Equal(t, functions.QueueExampleName, triggered[0].Name)
	assert.Empty(t, triggered[0].Route())

	assert.Empty(t, reg.QueueTriggers(ctx, "other"))
}

func TestGetFunctionNotFound(t *testing.T) {
	reg := newRegistry(t, filepath.Join(t.TempDir(), "functions.yaml"))
	fn, ok := reg.GetFunction(context.Background(), "Missing")
	assert.False(t, ok)
	assert.Nil(t, fn)
}

func TestHTTPRoute(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t, filepath.Join(t.TempDir(), "functions.yaml"))

	tests := []struct {
		name   string
		route  string
		wantFn string
		wantOK bool
	}{
		{name: "TestExactRoute", route: "HttpExample", wantFn: functions.HTTPExampleName, wantOK: true},
		{name: "TestCaseInsensitiveRoute", route: "httpexample", wantFn: functions.HTTPExampleName, wantOK: true},
		{name: "TestSlashes", route: "/HttpExample/", wantFn: functions.HTTPExampleName, wantOK: true},
		{name: "TestQueueFunctionHasNoRoute", route: "QueueExample", wantOK: false},
		{name: "TestEmptyRoute", route: "", wantOK: false},
		{name: "TestUnknownRoute", route: "missing", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := reg.HTTPRoute(ctx, tt.route)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantFn, fn.Name)
			} else {
				assert.Nil(t, fn)
			}
		})
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t, filepath.Join(t.TempDir(), "functions.yaml"))

	require.NoError(t, reg.Load(ctx))
	assert.Len(t, reg.ListFunctions(ctx), 2)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "functions.yaml")

	require.NoError(t, newRegistry(t, path).Save(ctx))
	_, err := os.Stat(path)
	require.NoError(t, err)

	reg := newRegistry(t, path)
	require.NoError(t, reg.Load(ctx))
	fn, ok := reg.GetFunction(ctx, functions.QueueExampleName)
	require.True(t, ok)
	assert.Equal(t, "outqueue", fn.Trigger().QueueName)
}

func TestLoadOverridesDefinition(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "functions.yaml")
	content := `functions:
  HttpExample:
    bindings:
      - name: req
        type: httpTrigger
        direction: in
        methods: [get]
        route: hello
      - name: res
        type: http
        direction: out
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg := newRegistry(t, path)
	require.NoError(t, reg.Load(ctx))

	fn, ok := reg.GetFunction(ctx, functions.HTTPExampleName)
	require.True(t, ok)
	assert.Equal(t, "hello", fn.Route())
	assert.Equal(t, []string{"GET"}, fn.Methods())
	assert.Empty(t, fn.Outputs(registry.TypeQueue))
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "functions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("functions: [not: a map"), 0o644))

	err := newRegistry(t, path).Load(context.Background())
	var loadErr *funcleterrors.RegistryLoadError
	assert.ErrorAs(t, err, &loadErr)
}
