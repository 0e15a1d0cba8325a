package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"stockmana/internal/db"
	"stockmana/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByUser(ctx context.Context, userID string) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	CountOwned(ctx context.Context, userID string, ids []string) (int, error)
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)
}

type productRepository struct {
	conn db.DBTX
}

func NewProductRepository(conn db.DBTX) ProductRepository {
	return &productRepository{conn: conn}
}

const productColumns = `id, user_id, name, sku, category, quantity, price, description, image, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.SKU, &p.Category, &p.Quantity, &p.Price, &p.Description, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, user_id, name, sku, category, quantity, price, description, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING created_at, updated_at
	`

	err := r.conn.QueryRowContext(ctx, query,
		product.ID, product.UserID, product.Name, product.SKU, product.Category,
		product.Quantity, product.Price, product.Description, product.Image, product.CreatedAt,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.conn.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) ListByUser(ctx context.Context, userID string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1,
			category = $2,
			quantity = $3,
			price = $4,
			description = $5,
			image = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.conn.QueryRowContext(ctx, query,
		product.Name, product.Category, product.Quantity, product.Price, product.Description, product.Image, product.ID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// CountOwned counts how many of ids exist and belong to userID.
func (r *productRepository) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE user_id = $1 AND id = ANY($2)`
	var n int
	if err := r.conn.QueryRowContext(ctx, query, userID, pq.Array(ids)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *productRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM products WHERE user_id = $1 AND id = ANY($2)`, userID, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
