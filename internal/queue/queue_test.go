package queue_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/queue"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(capacity int) *queue.Service {
	return queue.NewService(capacity, logrus.NewEntry(&logrus.Logger{Out: io.Discard}))
}

func TestEnqueueDequeue(t *testing.T) {
	ctx := context.Background()
	svc := newService(4)

	first, err := svc.Enqueue(ctx, "outqueue", "q:Alice")
	require.NoError(t, err)
	_, err = svc.Enqueue(ctx, "outqueue", "q:Bob")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 2, svc.Depth("outqueue"))
	assert.Equal(t, 0, svc.Depth("other"))

	msg, err := svc.Dequeue(ctx, "outqueue")
	require.NoError(t, err)
	assert.Equal(t, first.ID, msg.ID)
	assert.Equal(t, "q:Alice", msg.Body)
	assert.Equal(t, 1, msg.DequeueCount)

	msg, err = svc.Dequeue(ctx, "outqueue")
	require.NoError(t, err)
	assert.Equal(t, "q:Bob", msg.Body)
	assert.Equal(t, 0, svc.Depth("outqueue"))
}

func TestEnqueueFullQueue(t *testing.T) {
	ctx := context.Background()
	svc := newService(1)

	_, err := svc.Enqueue(ctx, "outqueue", "one")
	require.NoError(t, err)

	_, err = svc.Enqueue(ctx, "outqueue", "two")
	var fullErr *funcleterrors.QueueFullError
	require.ErrorAs(t, err, &fullErr)
	assert.Equal(t, 1, fullErr.Capacity)
}

func TestDequeueHonoursContext(t *testing.T) {
	svc := newService(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Dequeue(ctx, "outqueue")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseUnblocksConsumers(t *testing.T) {
	svc := newService(1)

	var wg sync.WaitGroup
	var dequeueErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, dequeueErr = svc.Dequeue(context.Background(), "outqueue")
	}()

	time.Sleep(10 * time.Millisecond)
	svc.Close()
	wg.Wait()

	var closedErr *funcleterrors.QueueClosedError
	assert.ErrorAs(t, dequeueErr, &closedErr)

	_, err := svc.Enqueue(context.Background(), "outqueue", "late")
	assert.ErrorAs(t, err, &closedErr)
}
