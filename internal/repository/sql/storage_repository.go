package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// StorageRepository implements repository.StorageRepository over Postgres.
type StorageRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewStorageRepository creates a new StorageRepository instance.
func NewStorageRepository(db *sql.DB) repository.StorageRepository {
	return &StorageRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *StorageRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

const storageRowColumns = `s.storage_id, s.product_id, s.drawer_id, s.weight_grams, s.date_in, s.date_out, s.available,
	       p.name, p.expiration_months, d.name, f.name`

const storageRowJoins = ` FROM storage s
	JOIN products p ON s.product_id = p.product_id
	JOIN drawers d ON s.drawer_id = d.drawer_id
	JOIN freezers f ON d.freezer_id = f.freezer_id`

// buildListQuery composes the storage list query from the filter. Only
// predicates that map directly onto stored columns are included here; the
// expiration-derived filter fields are applied in memory after projection so
// the month arithmetic lives in exactly one place. Rows are ordered
// ascending by storage ID so responses are deterministic.
func buildListQuery(filter repository.StorageFilter) (string, []any) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + storageRowColumns + storageRowJoins)
	queryBuilder.WriteString(" WHERE 1=1")

	var args []any
	argIndex := 1

	if filter.ProductName != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.name = $%d", argIndex))
		args = append(args, *filter.ProductName)
		argIndex++
	}

	if filter.FreezerName != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND f.name = $%d", argIndex))
		args = append(args, *filter.FreezerName)
		argIndex++

		// The validator guarantees a drawer filter never arrives without
		// a freezer filter.
		if filter.DrawerName != nil {
			queryBuilder.WriteString(fmt.Sprintf(" AND d.name = $%d", argIndex))
			args = append(args, *filter.DrawerName)
			argIndex++
		}
	}

	if filter.InBefore != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND s.date_in < $%d", argIndex))
		args = append(args, *filter.InBefore)
		argIndex++
	}

	if filter.IsWithdrawn {
		queryBuilder.WriteString(" AND s.date_out IS NOT NULL")
	} else {
		queryBuilder.WriteString(" AND s.date_out IS NULL")
	}

	queryBuilder.WriteString(fmt.Sprintf(" AND s.weight_grams <= $%d AND s.weight_grams >= $%d", argIndex, argIndex+1))
	args = append(args, filter.MaxWeight, filter.MinWeight)

	queryBuilder.WriteString(" ORDER BY s.storage_id ASC")

	return queryBuilder.String(), args
}

// ListRows retrieves joined storage rows matching the filter's storable
// predicates, ordered ascending by storage ID.
func (r *StorageRepository) ListRows(ctx context.Context, filter repository.StorageFilter) ([]model.StorageRow, error) {
	query, args := buildListQuery(filter)

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query storage rows: %w", err)
	}
	defer rows.Close()

	var results []model.StorageRow
	for rows.Next() {
		row, err := scanStorageRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// FindRowByID retrieves the joined row for a single storage entry.
func (r *StorageRepository) FindRowByID(ctx context.Context, id int64) (*model.StorageRow, error) {
	query := "SELECT " + storageRowColumns + storageRowJoins + " WHERE s.storage_id = $1"

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	row, err := scanStorageRow(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &repository.NotFoundError{Message: "Storage item not found"}
		}
		return nil, err
	}

	return row, nil
}

// scanTarget covers both *sql.Row and *sql.Rows.
type scanTarget interface {
	Scan(dest ...any) error
}

func scanStorageRow(s scanTarget) (*model.StorageRow, error) {
	var row model.StorageRow
	var dateOut sql.NullTime
	err := s.Scan(
		&row.Entry.ID, &row.Entry.ProductID, &row.Entry.DrawerID, &row.Entry.WeightGrams,
		&row.Entry.DateIn, &dateOut, &row.Entry.Available,
		&row.ProductName, &row.ExpirationMonths, &row.DrawerName, &row.FreezerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan storage row: %w", err)
	}
	if dateOut.Valid {
		row.Entry.DateOut = &dateOut.Time
	}
	return &row, nil
}

// FindByID retrieves a single storage entry without the joined names.
func (r *StorageRepository) FindByID(ctx context.Context, id int64) (*model.StorageEntry, error) {
	query := `SELECT storage_id, product_id, drawer_id, weight_grams, date_in, date_out, available
	          FROM storage WHERE storage_id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var entry model.StorageEntry
	var dateOut sql.NullTime
	err = stmt.QueryRowContext(ctx, id).Scan(
		&entry.ID, &entry.ProductID, &entry.DrawerID, &entry.WeightGrams,
		&entry.DateIn, &dateOut, &entry.Available,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &repository.NotFoundError{Message: "Storage item not found"}
		}
		return nil, fmt.Errorf("failed to query storage entry: %w", err)
	}
	if dateOut.Valid {
		entry.DateOut = &dateOut.Time
	}

	return &entry, nil
}

// Create inserts a new storage entry and fills in the assigned serial ID.
func (r *StorageRepository) Create(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error) {
	query := `INSERT INTO storage (product_id, drawer_id, weight_grams, date_in, date_out, available)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING storage_id`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var dateOut any
	if entry.DateOut != nil {
		dateOut = *entry.DateOut
	}
	err = stmt.QueryRowContext(ctx, entry.ProductID, entry.DrawerID, entry.WeightGrams, entry.DateIn, dateOut, entry.Available).
		Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert storage entry: %w", err)
	}

	return entry, nil
}

// Update overwrites an existing storage entry.
func (r *StorageRepository) Update(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error) {
	query := `UPDATE storage SET product_id = $1, drawer_id = $2, weight_grams = $3, date_in = $4, date_out = $5, available = $6
	          WHERE storage_id = $7`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	var dateOut any
	if entry.DateOut != nil {
		dateOut = *entry.DateOut
	}
	result, err := stmt.ExecContext(ctx, entry.ProductID, entry.DrawerID, entry.WeightGrams, entry.DateIn, dateOut, entry.Available, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update storage entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, &repository.NotFoundError{Message: "Storage item not found"}
	}

	return entry, nil
}

// SetWithdrawn marks an entry as withdrawn on dateOut, or clears the
// withdrawal (re-entry) when dateOut is nil. Availability is kept in lock
// step with date_out.
func (r *StorageRepository) SetWithdrawn(ctx context.Context, id int64, dateOut *time.Time) error {
	query := `UPDATE storage SET date_out = $1, available = $2 WHERE storage_id = $3`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	var out any
	if dateOut != nil {
		out = *dateOut
	}
	result, err := stmt.ExecContext(ctx, out, dateOut == nil, id)
	if err != nil {
		return fmt.Errorf("failed to update storage entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &repository.NotFoundError{Message: "Storage item not found"}
	}

	return nil
}

// DeleteByID removes a storage entry. Deletion is hard: the row is gone, the
// date_out mechanism is the only soft state the schema keeps.
func (r *StorageRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM storage WHERE storage_id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete storage entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &repository.NotFoundError{Message: "Storage item not found"}
	}

	return nil
}
