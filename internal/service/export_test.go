package service

import (
	"context"
	"time"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

func (w *OutboxWorker) ProcessEvents(ctx context.Context) {
	w.processEvents(ctx)
}

func ProjectStorageRows(rows []model.StorageRow, today time.Time) []model.StorageResponse {
	return projectStorageRows(rows, today)
}

func ApplyExpirationFilters(responses []model.StorageResponse, filter repository.StorageFilter) []model.StorageResponse {
	return applyExpirationFilters(responses, filter)
}
