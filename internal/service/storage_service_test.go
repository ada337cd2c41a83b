package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
	"github.com/evdbrink/freezer-storage-api/internal/service"
	"github.com/evdbrink/freezer-storage-api/internal/sqs"
)

// MockStorageRepository is a mock implementation of repository.StorageRepository
type MockStorageRepository struct {
	mock.Mock
}

func (m *MockStorageRepository) ListRows(ctx context.Context, filter repository.StorageFilter) ([]model.StorageRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StorageRow), args.Error(1)
}

func (m *MockStorageRepository) FindRowByID(ctx context.Context, id int64) (*model.StorageRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StorageRow), args.Error(1)
}

func (m *MockStorageRepository) FindByID(ctx context.Context, id int64) (*model.StorageEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StorageEntry), args.Error(1)
}

func (m *MockStorageRepository) Create(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StorageEntry), args.Error(1)
}

func (m *MockStorageRepository) Update(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StorageEntry), args.Error(1)
}

func (m *MockStorageRepository) SetWithdrawn(ctx context.Context, id int64, dateOut *time.Time) error {
	args := m.Called(ctx, id, dateOut)
	return args.Error(0)
}

func (m *MockStorageRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionalStorage is a mock implementation of service.TransactionalStorage
type MockTransactionalStorage struct {
	mock.Mock
}

func (m *MockTransactionalStorage) CreateStorageWithEvent(ctx context.Context, entry *model.StorageEntry, makeEvent func(*model.StorageEntry) (*model.Event, error)) (*model.StorageEntry, error) {
	args := m.Called(ctx, entry, makeEvent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StorageEntry), args.Error(1)
}

func (m *MockTransactionalStorage) SetWithdrawnWithEvent(ctx context.Context, id int64, dateOut *time.Time, event *model.Event) error {
	args := m.Called(ctx, id, dateOut, event)
	return args.Error(0)
}

func (m *MockTransactionalStorage) DeleteStorageWithEvent(ctx context.Context, id int64, event *model.Event) error {
	args := m.Called(ctx, id, event)
	return args.Error(0)
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func storageRow(id int64, dateIn time.Time, months int) model.StorageRow {
	return model.StorageRow{
		Entry: model.StorageEntry{
			ID:          id,
			ProductID:   2,
			DrawerID:    3,
			WeightGrams: 250,
			DateIn:      dateIn,
			Available:   true,
		},
		ProductName:      "spinach",
		ExpirationMonths: months,
		DrawerName:       "top left",
		FreezerName:      "garage",
	}
}

func TestQueryStorage_InvalidFilterNeverHitsRepository(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockStorageRepository)
	mockTx := new(MockTransactionalStorage)

	filter := repository.NewStorageFilter()
	drawer := "top left"
	filter.DrawerName = &drawer

	storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

	responses, err := storageService.QueryStorage(ctx, filter)
	require.Error(t, err)
	assert.Nil(t, responses)

	var validationErr *repository.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "drawerName also requires freezerName as query parameters", validationErr.Message)

	mockRepo.AssertNotCalled(t, "ListRows", mock.Anything, mock.Anything)
}

func TestQueryStorage_ProjectsExpirationPerRow(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockStorageRepository)
	mockTx := new(MockTransactionalStorage)

	filter := repository.NewStorageFilter()
	rows := []model.StorageRow{storageRow(1, date(2023, time.January, 1), 12)}
	mockRepo.On("ListRows", ctx, filter).Return(rows, nil)

	storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

	responses, err := storageService.QueryStorage(ctx, filter)
	require.NoError(t, err)
	require.Len(t, responses, 1)

	response := responses[0]
	assert.Equal(t, int64(1), response.StorageID)
	assert.Equal(t, "spinach", response.ProductName)
	assert.Equal(t, "garage", response.FreezerName)
	assert.Equal(t, "top left", response.DrawerName)
	assert.Equal(t, 250.0, response.WeightGrams)
	assert.Equal(t, date(2024, time.January, 1), response.ExpirationDate)
	assert.Equal(t, 214, response.ExpiresInDays)
	assert.Equal(t, date(2023, time.January, 1), response.InStorageSince)
	assert.Nil(t, response.OutStorageSince)

	mockRepo.AssertExpectations(t)
}

func TestQueryStorage_ExpirationWindowBoundaries(t *testing.T) {
	ctx := context.Background()

	// Shelf lives of 6 and 12 months from 2023-01-01: expirations on
	// 2023-07-01 and 2024-01-01.
	rows := []model.StorageRow{
		storageRow(1, date(2023, time.January, 1), 6),
		storageRow(2, date(2023, time.January, 1), 12),
	}

	t.Run("expiresBeforeDate keeps the boundary date", func(t *testing.T) {
		mockRepo := new(MockStorageRepository)
		mockTx := new(MockTransactionalStorage)

		filter := repository.NewStorageFilter()
		before := date(2023, time.July, 1)
		filter.ExpiresBeforeDate = &before
		mockRepo.On("ListRows", ctx, filter).Return(rows, nil)

		storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

		responses, err := storageService.QueryStorage(ctx, filter)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, int64(1), responses[0].StorageID)
	})

	t.Run("expiresAfterDate keeps the boundary date", func(t *testing.T) {
		mockRepo := new(MockStorageRepository)
		mockTx := new(MockTransactionalStorage)

		filter := repository.NewStorageFilter()
		after := date(2024, time.January, 1)
		filter.ExpiresAfterDate = &after
		mockRepo.On("ListRows", ctx, filter).Return(rows, nil)

		storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

		responses, err := storageService.QueryStorage(ctx, filter)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, int64(2), responses[0].StorageID)
	})

	t.Run("expiresInDays includes the exact day count", func(t *testing.T) {
		mockRepo := new(MockStorageRepository)
		mockTx := new(MockTransactionalStorage)

		filter := repository.NewStorageFilter()
		days := 30
		filter.ExpiresInDays = &days
		mockRepo.On("ListRows", ctx, filter).Return(rows, nil)

		// 2023-06-01 is 30 days before 2023-07-01.
		storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

		responses, err := storageService.QueryStorage(ctx, filter)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, int64(1), responses[0].StorageID)
		assert.Equal(t, 30, responses[0].ExpiresInDays)
	})
}

func TestGetStorageByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockStorageRepository)
	mockTx := new(MockTransactionalStorage)

	row := storageRow(7, date(2023, time.January, 1), 12)
	mockRepo.On("FindRowByID", ctx, int64(7)).Return(&row, nil)

	storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

	response, err := storageService.GetStorageByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), response.StorageID)
	assert.Equal(t, 214, response.ExpiresInDays)

	mockRepo.AssertExpectations(t)
}

func TestStoreItem_DefaultsDateInAndBuildsEvent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockStorageRepository)
	mockTx := new(MockTransactionalStorage)

	entry := &model.StorageEntry{
		ProductID:   2,
		DrawerID:    3,
		WeightGrams: 250,
	}

	var capturedEvent *model.Event
	mockTx.On("CreateStorageWithEvent", ctx, entry, mock.Anything).
		Run(func(args mock.Arguments) {
			makeEvent := args.Get(2).(func(*model.StorageEntry) (*model.Event, error))
			created := *entry
			created.ID = 7
			event, err := makeEvent(&created)
			require.NoError(t, err)
			capturedEvent = event
		}).
		Return(entry, nil)

	storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

	created, err := storageService.StoreItem(ctx, entry)
	require.NoError(t, err)

	assert.Equal(t, date(2023, time.June, 1), created.DateIn, "DateIn should default to today")
	assert.True(t, created.Available)
	assert.Nil(t, created.DateOut)

	require.NotNil(t, capturedEvent)
	assert.Equal(t, model.EventTypeStorageCreated, capturedEvent.EventType)

	var msg sqs.StorageMessage
	require.NoError(t, json.Unmarshal(capturedEvent.EventData, &msg))
	assert.Equal(t, int64(7), msg.StorageID, "event payload should carry the assigned serial ID")
	assert.Equal(t, int64(2), msg.ProductID)

	mockTx.AssertExpectations(t)
}

func TestStoreItem_KeepsClientDateIn(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockStorageRepository)
	mockTx := new(MockTransactionalStorage)

	entry := &model.StorageEntry{
		ProductID:   2,
		DrawerID:    3,
		WeightGrams: 250,
		DateIn:      date(2023, time.March, 15),
	}

	mockTx.On("CreateStorageWithEvent", ctx, entry, mock.Anything).Return(entry, nil)

	storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

	created, err := storageService.StoreItem(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, date(2023, time.March, 15), created.DateIn)

	mockTx.AssertExpectations(t)
}

func TestUpdateItem_DerivesAvailability(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockStorageRepository)
	mockTx := new(MockTransactionalStorage)

	dateOut := date(2023, time.March, 1)
	entry := &model.StorageEntry{
		ID:          7,
		ProductID:   2,
		DrawerID:    3,
		WeightGrams: 250,
		DateIn:      date(2023, time.January, 1),
		DateOut:     &dateOut,
		Available:   true,
	}

	mockRepo.On("Update", ctx, entry).Return(entry, nil)

	storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

	updated, err := storageService.UpdateItem(ctx, entry)
	require.NoError(t, err)
	assert.False(t, updated.Available, "availability should follow the withdrawal date")

	mockRepo.AssertExpectations(t)
}

func TestWithdrawItem(t *testing.T) {
	ctx := context.Background()

	t.Run("successful withdrawal", func(t *testing.T) {
		mockRepo := new(MockStorageRepository)
		mockTx := new(MockTransactionalStorage)

		entry := &model.StorageEntry{
			ID:        7,
			ProductID: 2,
			DrawerID:  3,
			DateIn:    date(2023, time.January, 1),
			Available: true,
		}
		mockRepo.On("FindByID", ctx, int64(7)).Return(entry, nil)

		today := date(2023, time.June, 1)
		mockTx.On("SetWithdrawnWithEvent", ctx, int64(7), &today, mock.AnythingOfType("*model.Event")).Return(nil)

		storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

		err := storageService.WithdrawItem(ctx, 7)
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
		mockTx.AssertExpectations(t)
	})

	t.Run("already withdrawn", func(t *testing.T) {
		mockRepo := new(MockStorageRepository)
		mockTx := new(MockTransactionalStorage)

		dateOut := date(2023, time.March, 1)
		entry := &model.StorageEntry{
			ID:      7,
			DateIn:  date(2023, time.January, 1),
			DateOut: &dateOut,
		}
		mockRepo.On("FindByID", ctx, int64(7)).Return(entry, nil)

		storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

		err := storageService.WithdrawItem(ctx, 7)
		require.Error(t, err)
		assert.Equal(t, "Storage item already withdrawn", err.Error())

		mockTx.AssertNotCalled(t, "SetWithdrawnWithEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReenterItem(t *testing.T) {
	ctx := context.Background()

	t.Run("successful re-entry", func(t *testing.T) {
		mockRepo := new(MockStorageRepository)
		mockTx := new(MockTransactionalStorage)

		dateOut := date(2023, time.March, 1)
		entry := &model.StorageEntry{
			ID:      7,
			DateIn:  date(2023, time.January, 1),
			DateOut: &dateOut,
		}
		mockRepo.On("FindByID", ctx, int64(7)).Return(entry, nil)
		mockTx.On("SetWithdrawnWithEvent", ctx, int64(7), (*time.Time)(nil), mock.AnythingOfType("*model.Event")).Return(nil)

		storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

		err := storageService.ReenterItem(ctx, 7)
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
		mockTx.AssertExpectations(t)
	})

	t.Run("not withdrawn", func(t *testing.T) {
		mockRepo := new(MockStorageRepository)
		mockTx := new(MockTransactionalStorage)

		entry := &model.StorageEntry{
			ID:        7,
			DateIn:    date(2023, time.January, 1),
			Available: true,
		}
		mockRepo.On("FindByID", ctx, int64(7)).Return(entry, nil)

		storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

		err := storageService.ReenterItem(ctx, 7)
		require.Error(t, err)
		assert.Equal(t, "Storage item is not withdrawn", err.Error())

		mockTx.AssertNotCalled(t, "SetWithdrawnWithEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockStorageRepository)
	mockTx := new(MockTransactionalStorage)

	entry := &model.StorageEntry{
		ID:        7,
		ProductID: 2,
		DrawerID:  3,
		DateIn:    date(2023, time.January, 1),
		Available: true,
	}
	mockRepo.On("FindByID", ctx, int64(7)).Return(entry, nil)
	mockTx.On("DeleteStorageWithEvent", ctx, int64(7), mock.AnythingOfType("*model.Event")).Return(nil)

	storageService := service.NewStorageServiceWithClock(mockRepo, mockTx, fixedClock(2023, time.June, 1))

	err := storageService.DeleteItem(ctx, 7)
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}
