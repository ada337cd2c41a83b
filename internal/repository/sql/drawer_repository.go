package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// DrawerRepository implements repository.DrawerRepository over Postgres.
type DrawerRepository struct {
	db *sql.DB
}

// NewDrawerRepository creates a new DrawerRepository instance.
func NewDrawerRepository(db *sql.DB) repository.DrawerRepository {
	return &DrawerRepository{db: db}
}

// List retrieves all drawers.
func (r *DrawerRepository) List(ctx context.Context) ([]model.Drawer, error) {
	query := `SELECT drawer_id, name, freezer_id FROM drawers ORDER BY drawer_id ASC`
	return r.list(ctx, query)
}

// ListByFreezerID retrieves the drawers belonging to one freezer.
func (r *DrawerRepository) ListByFreezerID(ctx context.Context, freezerID int64) ([]model.Drawer, error) {
	query := `SELECT drawer_id, name, freezer_id FROM drawers WHERE freezer_id = $1 ORDER BY drawer_id ASC`
	return r.list(ctx, query, freezerID)
}

func (r *DrawerRepository) list(ctx context.Context, query string, args ...any) ([]model.Drawer, error) {
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query drawers: %w", err)
	}
	defer rows.Close()

	var drawers []model.Drawer
	for rows.Next() {
		var drawer model.Drawer
		if err := rows.Scan(&drawer.ID, &drawer.Name, &drawer.FreezerID); err != nil {
			return nil, fmt.Errorf("failed to scan drawer: %w", err)
		}
		drawers = append(drawers, drawer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return drawers, nil
}

// FindByID retrieves a single drawer by ID.
func (r *DrawerRepository) FindByID(ctx context.Context, id int64) (*model.Drawer, error) {
	query := `SELECT drawer_id, name, freezer_id FROM drawers WHERE drawer_id = $1`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var drawer model.Drawer
	err = stmt.QueryRowContext(ctx, id).Scan(&drawer.ID, &drawer.Name, &drawer.FreezerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &repository.NotFoundError{Message: "Drawer not found"}
		}
		return nil, fmt.Errorf("failed to query drawer: %w", err)
	}

	return &drawer, nil
}

// Create inserts a new drawer and fills in the assigned serial ID. The
// (name, freezer_id) pair is unique per schema.
func (r *DrawerRepository) Create(ctx context.Context, drawer *model.Drawer) (*model.Drawer, error) {
	query := `INSERT INTO drawers (name, freezer_id) VALUES ($1, $2) RETURNING drawer_id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, drawer.Name, drawer.FreezerID).Scan(&drawer.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &repository.UniqueConstraintError{Detail: "drawer name " + drawer.Name}
		}
		return nil, fmt.Errorf("failed to insert drawer: %w", err)
	}

	return drawer, nil
}

// Update overwrites an existing drawer.
func (r *DrawerRepository) Update(ctx context.Context, drawer *model.Drawer) (*model.Drawer, error) {
	query := `UPDATE drawers SET name = $1, freezer_id = $2 WHERE drawer_id = $3`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, drawer.Name, drawer.FreezerID, drawer.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &repository.UniqueConstraintError{Detail: "drawer name " + drawer.Name}
		}
		return nil, fmt.Errorf("failed to update drawer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, &repository.NotFoundError{Message: "Drawer not found"}
	}

	return drawer, nil
}

// DeleteByID deletes a drawer by ID.
func (r *DrawerRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM drawers WHERE drawer_id = $1`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete drawer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &repository.NotFoundError{Message: "Drawer not found"}
	}

	return nil
}
