package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// ProductRepository implements repository.ProductRepository over Postgres.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

// List retrieves all products from the catalog.
func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	query := `SELECT product_id, name, expiration_months FROM products ORDER BY product_id ASC`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var product model.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.ExpirationMonths); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT product_id, name, expiration_months FROM products WHERE product_id = $1`
	return r.findOne(ctx, query, id)
}

// FindByName retrieves a single product by its unique name.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*model.Product, error) {
	query := `SELECT product_id, name, expiration_months FROM products WHERE name = $1`
	return r.findOne(ctx, query, name)
}

func (r *ProductRepository) findOne(ctx context.Context, query string, arg any) (*model.Product, error) {
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var product model.Product
	err = stmt.QueryRowContext(ctx, arg).Scan(&product.ID, &product.Name, &product.ExpirationMonths)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &repository.NotFoundError{Message: "Product not found"}
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &product, nil
}

// Create inserts a new product and fills in the assigned serial ID.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	query := `INSERT INTO products (name, expiration_months) VALUES ($1, $2) RETURNING product_id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, product.Name, product.ExpirationMonths).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &repository.UniqueConstraintError{Detail: "product name " + product.Name}
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// Update overwrites an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	query := `UPDATE products SET name = $1, expiration_months = $2 WHERE product_id = $3`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, product.Name, product.ExpirationMonths, product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &repository.UniqueConstraintError{Detail: "product name " + product.Name}
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, &repository.NotFoundError{Message: "Product not found"}
	}

	return product, nil
}

// DeleteByID deletes a product by ID.
func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE product_id = $1`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &repository.NotFoundError{Message: "Product not found"}
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation surfaced by the pgx driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pqUniqueViolationErrCode
}
