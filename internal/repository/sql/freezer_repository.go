package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// FreezerRepository implements repository.FreezerRepository over Postgres.
type FreezerRepository struct {
	db *sql.DB
}

// NewFreezerRepository creates a new FreezerRepository instance.
func NewFreezerRepository(db *sql.DB) repository.FreezerRepository {
	return &FreezerRepository{db: db}
}

// List retrieves all freezers.
func (r *FreezerRepository) List(ctx context.Context) ([]model.Freezer, error) {
	query := `SELECT freezer_id, name FROM freezers ORDER BY freezer_id ASC`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query freezers: %w", err)
	}
	defer rows.Close()

	var freezers []model.Freezer
	for rows.Next() {
		var freezer model.Freezer
		if err := rows.Scan(&freezer.ID, &freezer.Name); err != nil {
			return nil, fmt.Errorf("failed to scan freezer: %w", err)
		}
		freezers = append(freezers, freezer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return freezers, nil
}

// FindByID retrieves a single freezer by ID.
func (r *FreezerRepository) FindByID(ctx context.Context, id int64) (*model.Freezer, error) {
	query := `SELECT freezer_id, name FROM freezers WHERE freezer_id = $1`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var freezer model.Freezer
	err = stmt.QueryRowContext(ctx, id).Scan(&freezer.ID, &freezer.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &repository.NotFoundError{Message: "Freezer not found"}
		}
		return nil, fmt.Errorf("failed to query freezer: %w", err)
	}

	return &freezer, nil
}

// Create inserts a new freezer and fills in the assigned serial ID.
func (r *FreezerRepository) Create(ctx context.Context, freezer *model.Freezer) (*model.Freezer, error) {
	query := `INSERT INTO freezers (name) VALUES ($1) RETURNING freezer_id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, freezer.Name).Scan(&freezer.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &repository.UniqueConstraintError{Detail: "freezer name " + freezer.Name}
		}
		return nil, fmt.Errorf("failed to insert freezer: %w", err)
	}

	return freezer, nil
}

// Update overwrites an existing freezer.
func (r *FreezerRepository) Update(ctx context.Context, freezer *model.Freezer) (*model.Freezer, error) {
	query := `UPDATE freezers SET name = $1 WHERE freezer_id = $2`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, freezer.Name, freezer.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &repository.UniqueConstraintError{Detail: "freezer name " + freezer.Name}
		}
		return nil, fmt.Errorf("failed to update freezer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, &repository.NotFoundError{Message: "Freezer not found"}
	}

	return freezer, nil
}

// DeleteByID deletes a freezer by ID. Freezers with dependent drawers are
// protected by referential integrity in the schema.
func (r *FreezerRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM freezers WHERE freezer_id = $1`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete freezer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &repository.NotFoundError{Message: "Freezer not found"}
	}

	return nil
}
