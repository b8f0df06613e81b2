package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyambati/funclet/internal/binding"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/sirupsen/logrus"
)

var _ InvokerInterface = (*Invoker)(nil)

func NewInvoker(baseURL string, timeout time.Duration, logger *logrus.Entry) InvokerInterface {
	return &Invoker{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.WithField("component", "invoker"),
	}
}

func (i *Invoker) Invoke(ctx context.Context, functionName string, req *binding.InvokeRequest) (*binding.InvokeResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("invoker: failed to encode invocation request: %w", err)
	}

	headers := map[string]string{binding.InvocationIDHeader: uuid.NewString()}
	url := fmt.Sprintf("%s/%s", i.baseURL, functionName)

	body, _, err := i.sendRequest(ctx, functionName, url, headers, payload)
	if err != nil {
		return nil, err
	}

	resp := &binding.InvokeResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("invoker: failed to decode invocation response: %w", err)
	}
	return resp, nil
}

func (i *Invoker) sendRequest(
	ctx context.Context,
	functionName string,
	url string,
	headers map[string]string,
	payload []byte,
) ([]byte, int, error) {
	startTime := time.Now()
	logger := i.logger.WithFields(logrus.Fields{"function": functionName, "url": url})
	logger.Debug("sending invocation to worker")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		logger.WithError(err).Error("failed to create http request")
		return nil, http.StatusInternalServerError, fmt.Errorf("invoker failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		logger.WithError(err).Error("failed to send http request")
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded), isTimeout(err):
			return nil, http.StatusRequestTimeout, funcleterrors.NewTimeoutError(functionName)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, http.StatusRequestTimeout, fmt.Errorf("invoker: request canceled: %w", ctx.Err())
		default:
			return nil, http.StatusInternalServerError, funcleterrors.NewConnectionError(functionName)
		}
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithError(err).Error("failed to read response body")
		return nil, resp.StatusCode, fmt.Errorf("invoker: failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.WithField("status_code", resp.StatusCode).Warn("worker returned non-2xx response")
		return nil, resp.StatusCode, funcleterrors.NewFunctionInvocationError(functionName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration":    time.Since(startTime),
	}).Debug("invocation completed successfully")
	return body, resp.StatusCode, nil
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
