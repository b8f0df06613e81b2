package queue

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Message struct {
	ID            string
	Body          string
	InsertionTime time.Time
	DequeueCount  int
}

type ServiceInterface interface {
	Enqueue(ctx context.Context, queueName, body string) (*Message, error)
	Dequeue(ctx context.Context, queueName string) (*Message, error)
	Depth(queueName string) int
	Close()
}

type queue struct {
	name     string
	messages chan *Message
}

// Service keeps named in-memory queues. Queues are created on first use.
type Service struct {
	capacity int
	queues   map[string]*queue
	closed   bool
	mutex    sync.Mutex
	logger   *logrus.Entry
}
