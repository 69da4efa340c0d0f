package user

import (
	"context"
	"errors"
	"strings"

	"cart-operations/internal/db"
	"cart-operations/internal/domain"
	"cart-operations/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

const selectColumns = `id::text, name, email, is_employee, is_affiliated, registered_on`

type postgresRepo struct {
	db     db.DBTX
	logger logrus.FieldLogger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(conn db.DBTX, logger logrus.FieldLogger) Repository {
	return &postgresRepo{db: conn, logger: logging.OrDiscard(logger)}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return r.scanUser(r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1`, id))
}

// GetByName returns the earliest registered user with the given name.
func (r *postgresRepo) GetByName(ctx context.Context, name string) (*domain.User, error) {
	const q = `SELECT ` + selectColumns + ` FROM users WHERE name = $1 ORDER BY registered_on ASC LIMIT 1`
	return r.scanUser(r.db.QueryRow(ctx, q, strings.TrimSpace(name)))
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (name, email, is_employee, is_affiliated, registered_on)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + selectColumns
	created, err := r.scanUser(r.db.QueryRow(ctx, q, u.Name, strings.ToLower(u.Email), u.IsEmployee, u.IsAffiliated, u.RegisteredOn))
	if db.IsUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return created, err
}

// Upsert inserts or updates a user keyed by email.
func (r *postgresRepo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (name, email, is_employee, is_affiliated, registered_on)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE SET
    name = EXCLUDED.name,
    is_employee = EXCLUDED.is_employee,
    is_affiliated = EXCLUDED.is_affiliated,
    registered_on = EXCLUDED.registered_on
RETURNING ` + selectColumns
	return r.scanUser(r.db.QueryRow(ctx, q, u.Name, strings.ToLower(u.Email), u.IsEmployee, u.IsAffiliated, u.RegisteredOn))
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.IsEmployee, &u.IsAffiliated, &u.RegisteredOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if db.IsUniqueViolation(err) {
			r.logger.WithError(err).Warn("user repo: duplicate")
		} else {
			r.logger.WithError(err).Error("user repo: scan")
		}
		return nil, err
	}
	return &u, nil
}
