package health

import (
	"context"
	"net/http"
	"time"

	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/sirupsen/logrus"
)

func NewHealthChecker(timeout, interval time.Duration, logger *logrus.Entry) HealthCheckerInterface {
	return &HealthChecker{
		client:   &http.Client{Timeout: 2 * time.Second},
		logger:   logger.WithField("component", "health"),
		timeout:  timeout,
		interval: interval,
	}
}

func (hc *HealthChecker) IsHealthy(ctx context.Context, url string) (bool, error) {
	log := hc.logger.WithField("url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, funcleterrors.NewHealthCheckFailedError(url, err.Error())
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		log.WithError(err).Debug("failed to perform health check request")
		return false, funcleterrors.NewHealthCheckFailedError(url, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return true, nil
	}
	log.WithField("status_code", resp.StatusCode).Warn("target returned unhealthy status")
	return false, funcleterrors.NewHealthCheckFailedError(url, resp.Status)
}

// WaitForHealthy polls url until it answers 2xx or the checker timeout elapses.
func (hc *HealthChecker) WaitForHealthy(ctx context.Context, url string) error {
	log := hc.logger.WithField("url", url)

	timeoutCtx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		healthy, err := hc.IsHealthy(timeoutCtx, url)
		if err != nil {
			log.WithError(err).Debug("health check attempt failed")
		}
		if healthy {
			log.Info("target is healthy")
			return nil
		}

		select {
		case <-timeoutCtx.Done():
			return funcleterrors.NewTimeoutError(url)
		case <-ticker.C:
		}
	}
}
