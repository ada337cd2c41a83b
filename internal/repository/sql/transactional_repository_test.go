package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdbrink/freezer-storage-api/internal/model"
)

func TestTransactionalRepository_CreateStorageWithEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("entry and event commit together", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewTransactionalRepository(db)

		entry := &model.StorageEntry{
			ProductID:   2,
			DrawerID:    3,
			WeightGrams: 250,
			DateIn:      time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
			Available:   true,
		}

		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO storage").
			ExpectQuery().
			WithArgs(entry.ProductID, entry.DrawerID, entry.WeightGrams, entry.DateIn, nil, entry.Available).
			WillReturnRows(sqlmock.NewRows([]string{"storage_id"}).AddRow(int64(7)))
		mock.ExpectPrepare("INSERT INTO events").
			ExpectExec().
			WithArgs(sqlmock.AnyArg(), model.EventTypeStorageCreated, sqlmock.AnyArg(), model.EventStatusPending, sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		var eventSawID int64
		makeEvent := func(created *model.StorageEntry) (*model.Event, error) {
			eventSawID = created.ID
			return &model.Event{
				EventType: model.EventTypeStorageCreated,
				EventData: []byte(`{}`),
			}, nil
		}

		created, err := repo.CreateStorageWithEvent(ctx, entry, makeEvent)
		require.NoError(t, err)

		assert.Equal(t, int64(7), created.ID)
		assert.Equal(t, int64(7), eventSawID, "event builder should see the assigned serial ID")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("event builder failure rolls back the entry", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewTransactionalRepository(db)

		entry := &model.StorageEntry{
			ProductID:   2,
			DrawerID:    3,
			WeightGrams: 250,
			DateIn:      time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
			Available:   true,
		}

		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO storage").
			ExpectQuery().
			WithArgs(entry.ProductID, entry.DrawerID, entry.WeightGrams, entry.DateIn, nil, entry.Available).
			WillReturnRows(sqlmock.NewRows([]string{"storage_id"}).AddRow(int64(7)))
		mock.ExpectRollback()

		makeEvent := func(*model.StorageEntry) (*model.Event, error) {
			return nil, errors.New("marshal failed")
		}

		created, err := repo.CreateStorageWithEvent(ctx, entry, makeEvent)
		require.Error(t, err)
		assert.Nil(t, created)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionalRepository_SetWithdrawnWithEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionalRepository(db)
	ctx := context.Background()

	dateOut := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	event := &model.Event{
		EventType: model.EventTypeStorageWithdrawn,
		EventData: []byte(`{}`),
	}

	mock.ExpectBegin()
	mock.ExpectPrepare("UPDATE storage SET date_out = \\$1, available = \\$2 WHERE storage_id = \\$3").
		ExpectExec().
		WithArgs(dateOut, false, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("INSERT INTO events").
		ExpectExec().
		WithArgs(sqlmock.AnyArg(), event.EventType, []byte(`{}`), model.EventStatusPending, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.SetWithdrawnWithEvent(ctx, 7, &dateOut, event)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionalRepository_DeleteStorageWithEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionalRepository(db)
	ctx := context.Background()

	event := &model.Event{
		EventType: model.EventTypeStorageDeleted,
		EventData: []byte(`{}`),
	}

	mock.ExpectBegin()
	mock.ExpectPrepare("DELETE FROM storage WHERE storage_id = \\$1").
		ExpectExec().
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("INSERT INTO events").
		ExpectExec().
		WithArgs(sqlmock.AnyArg(), event.EventType, []byte(`{}`), model.EventStatusPending, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.DeleteStorageWithEvent(ctx, 7, event)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
