package health_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/h2non/gock"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/health"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChecker(timeout time.Duration) health.HealthCheckerInterface {
	logger := logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	return health.NewHealthChecker(timeout, 10*time.Millisecond, logger)
}

func TestIsHealthy(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       bool
		wantErr    bool
	}{
		{name: "TestHealthyTarget", statusCode: 200, want: true},
		{name: "TestUnhealthyTarget", statusCode: 503, want: false, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()
			gock.New("http://localhost:7072").Get("/health").Reply(tt.statusCode)

			healthy, err := newChecker(time.Second).IsHealthy(context.Background(), "http://localhost:7072/health")
			assert.Equal(t, tt.want, healthy)
			if tt.wantErr {
				var hcErr *funcleterrors.HealthCheckFailedError
				assert.ErrorAs(t, err, &hcErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWaitForHealthy(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, newChecker(time.Second).WaitForHealthy(context.Background(), server.URL))
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestWaitForHealthyTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := newChecker(50*time.Millisecond).WaitForHealthy(context.Background(), server.URL)
	var timeoutErr *funcleterrors.TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}
