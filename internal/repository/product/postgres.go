package product

import (
	"context"
	"errors"

	"cart-operations/internal/db"
	"cart-operations/internal/domain"
	"cart-operations/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

const selectColumns = `id::text, name, COALESCE(description, ''), category, price, available_quantity, employee_discount_enabled, created_at`

type postgresRepo struct {
	db     db.DBTX
	logger logrus.FieldLogger
}

func NewPostgres(conn db.DBTX, logger logrus.FieldLogger) Repository {
	return &postgresRepo{db: conn, logger: logging.OrDiscard(logger)}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products ORDER BY name ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		r.logger.WithError(err).Error("product repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.WithError(err).Error("product repo: list rows")
		return nil, err
	}
	r.logger.WithField("count", len(result)).Debug("product repo: list")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	q := `SELECT ` + selectColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WithField("product_id", id).Debug("product repo: not found")
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("product_id", id).Error("product repo: get")
		return nil, err
	}
	return p, nil
}

// Upsert inserts or updates a product keyed by its name.
func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (name, description, category, price, available_quantity, employee_discount_enabled)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
ON CONFLICT (name) DO UPDATE SET
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price = EXCLUDED.price,
    available_quantity = EXCLUDED.available_quantity,
    employee_discount_enabled = EXCLUDED.employee_discount_enabled
RETURNING ` + selectColumns
	p, err := scanProduct(r.db.QueryRow(ctx, q,
		product.Name,
		product.Description,
		string(product.Category),
		product.Price,
		product.AvailableQuantity,
		product.EmployeeDiscountEnabled,
	))
	if err != nil {
		r.logger.WithError(err).WithField("name", product.Name).Error("product repo: upsert")
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"name": p.Name, "product_id": p.ID}).Debug("product repo: upserted")
	return p, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var category string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &category, &p.Price, &p.AvailableQuantity, &p.EmployeeDiscountEnabled, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Category = domain.Category(category)
	return &p, nil
}
