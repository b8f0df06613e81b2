package queue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Publisher writes a message to a named queue owned by another process.
type Publisher interface {
	Publish(ctx context.Context, queueName, body string) error
}

// HTTPPublisher posts messages to a funclet host's enqueue endpoint.
type HTTPPublisher struct {
	endpoint string
	client   *http.Client
	logger   *logrus.Entry
}

func NewHTTPPublisher(endpoint string, timeout time.Duration, logger *logrus.Entry) *HTTPPublisher {
	return &HTTPPublisher{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.WithField("component", "publisher"),
	}
}

func (p *HTTPPublisher) Publish(ctx context.Context, queueName, body string) error {
	target := fmt.Sprintf("%s/admin/queues/%s/messages", p.endpoint, url.PathEscape(queueName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader([]byte(body)))
	if err != nil {
		return fmt.Errorf("publisher: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publisher: failed to publish to %s: %w", queueName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("publisher: queue %s rejected message: %d %s", queueName, resp.StatusCode, strings.TrimSpace(string(text)))
	}

	p.logger.WithField("queue", queueName).Debug("published message")
	return nil
}

// LogPublisher drops messages after logging them.
type LogPublisher struct {
	logger *logrus.Entry
}

func NewLogPublisher(logger *logrus.Entry) *LogPublisher {
	return &LogPublisher{logger: logger.WithField("component", "publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, queueName, body string) error {
	p.logger.WithFields(logrus.Fields{"queue": queueName, "body": body}).Warn("no queue endpoint configured, dropping message")
	return nil
}
