package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/application"
)

type Message struct {
	Topic   string
	Payload []byte
}

type Consumer interface {
	Poll(ctx context.Context, max int) ([]Message, error)
}

// ConsumerWorker drains learner-mutation topics and turns each message into a
// cache invalidation, so stale snapshots never outlive an upstream change by
// more than one poll interval.
type ConsumerWorker struct {
	logger   *slog.Logger
	consumer Consumer
	service  *application.Service
	interval time.Duration
}

func NewConsumerWorker(logger *slog.Logger, consumer Consumer, service *application.Service, interval time.Duration) *ConsumerWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &ConsumerWorker{
		logger: logger, consumer: consumer, service: service, interval: interval,
	}
}

func (w *ConsumerWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "consumer iteration failed",
				"module", "events.consumer_worker",
				"layer", "adapter",
				"operation", "process_once",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *ConsumerWorker) processOnce(ctx context.Context) error {
	msgs, err := w.consumer.Poll(ctx, 50)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		switch msg.Topic {
		case application.EventTypeProfileUpdated:
			if err := w.service.HandleProfileUpdated(ctx, msg.Payload); err != nil {
				w.logger.WarnContext(ctx, "failed to handle learner.profile_updated", "error", err)
			}
		case application.EventTypeLearnerDeleted:
			if err := w.service.HandleLearnerDeleted(ctx, msg.Payload); err != nil {
				w.logger.WarnContext(ctx, "failed to handle learner.deleted", "error", err)
			}
		default:
			w.logger.WarnContext(ctx, "ignoring message on unexpected topic", "topic", msg.Topic)
		}
	}
	return nil
}
