package service

import (
	"time"

	"github.com/evdbrink/freezer-storage-api/internal/expiration"
	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// projectStorageRows maps joined rows into responses, preserving input
// order. Expiration data is derived per row from the product shelf life.
func projectStorageRows(rows []model.StorageRow, today time.Time) []model.StorageResponse {
	responses := make([]model.StorageResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, projectStorageRow(row, today))
	}
	return responses
}

func projectStorageRow(row model.StorageRow, today time.Time) model.StorageResponse {
	exp := expiration.Compute(row.Entry.DateIn, row.ExpirationMonths, today)
	return model.StorageResponse{
		StorageID:       row.Entry.ID,
		ProductName:     row.ProductName,
		FreezerName:     row.FreezerName,
		DrawerName:      row.DrawerName,
		WeightGrams:     row.Entry.WeightGrams,
		ExpirationDate:  exp.Date,
		ExpiresInDays:   exp.DaysLeft,
		InStorageSince:  row.Entry.DateIn,
		OutStorageSince: row.Entry.DateOut,
	}
}

// applyExpirationFilters narrows the projected responses by the
// expiration-derived filter fields. These predicates never run in SQL since
// expiration is computed, not stored. Each active filter is an independent
// AND-conjunction; absent filters are no-ops. Input order is preserved.
func applyExpirationFilters(responses []model.StorageResponse, filter repository.StorageFilter) []model.StorageResponse {
	if filter.ExpiresInDays == nil && filter.ExpiresAfterDate == nil && filter.ExpiresBeforeDate == nil {
		return responses
	}

	kept := make([]model.StorageResponse, 0, len(responses))
	for _, response := range responses {
		if filter.ExpiresInDays != nil && response.ExpiresInDays > *filter.ExpiresInDays {
			continue
		}
		if filter.ExpiresAfterDate != nil && response.ExpirationDate.Before(*filter.ExpiresAfterDate) {
			continue
		}
		if filter.ExpiresBeforeDate != nil && response.ExpirationDate.After(*filter.ExpiresBeforeDate) {
			continue
		}
		kept = append(kept, response)
	}
	return kept
}
