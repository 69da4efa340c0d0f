package repository

import (
	"context"
	"fmt"

	"cart-operations/internal/db"
	"cart-operations/internal/repository/cart"
	"cart-operations/internal/repository/product"
	"cart-operations/internal/repository/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Repos groups the repositories bound to one connection or transaction.
type Repos interface {
	Carts() cart.Repository
	Products() product.Repository
	Users() user.Repository
}

// TxManager runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

type repos struct {
	carts    cart.Repository
	products product.Repository
	users    user.Repository
}

func (r repos) Carts() cart.Repository       { return r.carts }
func (r repos) Products() product.Repository { return r.products }
func (r repos) Users() user.Repository       { return r.users }

// NewRepos builds the Postgres repositories over conn.
func NewRepos(conn db.DBTX, logger logrus.FieldLogger) Repos {
	return repos{
		carts:    cart.NewPostgres(conn, logger),
		products: product.NewPostgres(conn, logger),
		users:    user.NewPostgres(conn, logger),
	}
}

type pgTxManager struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewTxManager(pool *pgxpool.Pool, logger logrus.FieldLogger) TxManager {
	return &pgTxManager{pool: pool, logger: logger}
}

func (m *pgTxManager) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// no-op after a successful commit
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx, m.logger)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
