package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/metrics"
	"github.com/sirupsen/logrus"
)

var _ ServiceInterface = (*Service)(nil)

func NewService(capacity int, logger *logrus.Entry) *Service {
	return &Service{
		capacity: capacity,
		queues:   make(map[string]*queue),
		logger:   logger.WithField("component", "queue"),
	}
}

// get returns the named queue, creating it if needed. Callers hold the mutex.
func (s *Service) get(name string) *queue {
	q, ok := s.queues[name]
	if !ok {
		q = &queue{name: name, messages: make(chan *Message, s.capacity)}
		s.queues[name] = q
		s.logger.WithField("queue", name).Info("created queue")
	}
	return q
}

// Enqueue adds body to the named queue without blocking. A full queue
// rejects the message.
func (s *Service) Enqueue(ctx context.Context, queueName, body string) (*Message, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil, funcleterrors.NewQueueClosedError(queueName)
	}

	q := s.get(queueName)
	msg := &Message{
		ID:            uuid.NewString(),
		Body:          body,
		InsertionTime: time.Now().UTC(),
	}

	select {
	case q.messages <- msg:
	default:
		metrics.RecordQueueMessage(queueName, metrics.OutcomeRejected)
		return nil, funcleterrors.NewQueueFullError(queueName, s.capacity)
	}

	metrics.RecordQueueMessage(queueName, metrics.OutcomeEnqueued)
	metrics.UpdateQueueDepth(queueName, len(q.messages))
	s.logger.WithFields(logrus.Fields{"queue": queueName, "message_id": msg.ID}).Debug("enqueued message")
	return msg, nil
}

// Dequeue blocks until a message is available, ctx is done or the service is closed.
func (s *Service) Dequeue(ctx context.Context, queueName string) (*Message, error) {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil, funcleterrors.NewQueueClosedError(queueName)
	}
	q := s.get(queueName)
	s.mutex.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-q.messages:
		if !ok {
			return nil, funcleterrors.NewQueueClosedError(queueName)
		}
		msg.DequeueCount++
		metrics.UpdateQueueDepth(queueName, len(q.messages))
		return msg, nil
	}
}

func (s *Service) Depth(queueName string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if q, ok := s.queues[queueName]; ok {
		return len(q.messages)
	}
	return 0
}

// Close stops all queues. Messages still buffered are drained by pending
// Dequeue calls before they report the queue as closed.
func (s *Service) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, q := range s.queues {
		close(q.messages)
	}
}
