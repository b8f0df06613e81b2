package functions

import (
	"context"

	"github.com/nyambati/funclet/internal/binding"
)

const QueueMarker = "** QUEUE **"

// QueueExample logs each dequeued message.
func QueueExample(ctx context.Context, fc *binding.Context) error {
	message, err := fc.QueueMessage(QueueInputBinding)
	if err != nil {
		return err
	}
	fc.Log(QueueMarker, message)
	return nil
}
