package health

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type HealthChecker struct {
	client   *http.Client
	logger   *logrus.Entry
	timeout  time.Duration
	interval time.Duration
}

type HealthCheckerInterface interface {
	WaitForHealthy(ctx context.Context, url string) error
	IsHealthy(ctx context.Context, url string) (bool, error)
}
