package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
	"github.com/evdbrink/freezer-storage-api/internal/sqs"
)

const outboxBatchSize = 100

// MessagePublisher publishes storage notifications. Implemented by
// sqs.Publisher.
type MessagePublisher interface {
	PublishStorageMessage(ctx context.Context, msg sqs.StorageMessage) error
}

// OutboxWorker polls the events table and publishes pending storage events.
type OutboxWorker struct {
	eventRepo repository.EventRepository
	publisher MessagePublisher
	interval  time.Duration
	stopChan  chan struct{}
}

// NewOutboxWorker creates a new OutboxWorker.
func NewOutboxWorker(eventRepo repository.EventRepository, publisher MessagePublisher, interval time.Duration) *OutboxWorker {
	return &OutboxWorker{
		eventRepo: eventRepo,
		publisher: publisher,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins processing events from the outbox until the context is
// cancelled or Stop is called.
func (w *OutboxWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker stopped by context")
			return
		case <-w.stopChan:
			slog.Info("Outbox worker stopped")
			return
		case <-ticker.C:
			w.processEvents(ctx)
		}
	}
}

// Stop stops the outbox worker.
func (w *OutboxWorker) Stop() {
	close(w.stopChan)
}

// processEvents retrieves and publishes pending events, marking each as
// processed or failed.
func (w *OutboxWorker) processEvents(ctx context.Context) {
	events, err := w.eventRepo.ListPending(ctx, outboxBatchSize)
	if err != nil {
		slog.Error("Failed to retrieve pending events", slog.Any("err", err))
		return
	}

	if len(events) == 0 {
		return
	}

	slog.Info("Processing pending events", slog.Int("count", len(events)))

	for _, event := range events {
		if err := w.processEvent(ctx, &event); err != nil {
			slog.Error("Failed to process event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType),
				slog.Any("err", err))

			if updateErr := w.eventRepo.UpdateStatus(ctx, event.ID, model.EventStatusFailed); updateErr != nil {
				slog.Error("Failed to update event status to failed",
					slog.String("event_id", event.ID.String()),
					slog.Any("err", updateErr))
			}
			continue
		}

		if updateErr := w.eventRepo.UpdateStatus(ctx, event.ID, model.EventStatusProcessed); updateErr != nil {
			slog.Error("Failed to update event status to processed",
				slog.String("event_id", event.ID.String()),
				slog.Any("err", updateErr))
			continue
		}

		slog.Info("Event processed successfully",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType))
	}
}

// processEvent publishes a single event to SQS.
func (w *OutboxWorker) processEvent(ctx context.Context, event *model.Event) error {
	var msg sqs.StorageMessage
	if err := json.Unmarshal(event.EventData, &msg); err != nil {
		return err
	}

	return w.publisher.PublishStorageMessage(ctx, msg)
}
