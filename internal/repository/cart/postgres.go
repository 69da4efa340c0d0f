package cart

import (
	"context"
	"errors"
	"time"

	"cart-operations/internal/db"
	"cart-operations/internal/domain"
	"cart-operations/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const cartQuery = `
SELECT c.id::text, c.user_id::text, c.total_cost, c.bill_discount, c.user_discount, c.created_at, c.updated_at,
       u.id::text, u.name, u.email, u.is_employee, u.is_affiliated, u.registered_on
FROM carts c
LEFT JOIN users u ON u.id = c.user_id
WHERE c.id = $1
`

const itemColumns = `id::text, cart_id::text, product_id::text, name, category, quantity, price, discount, position, created_at`

type postgresRepo struct {
	db     db.DBTX
	logger logrus.FieldLogger
}

func NewPostgres(conn db.DBTX, logger logrus.FieldLogger) Repository {
	return &postgresRepo{db: conn, logger: logging.OrDiscard(logger)}
}

func (r *postgresRepo) Create(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
RETURNING id::text
`
	var id string
	if err := r.db.QueryRow(ctx, q, userID).Scan(&id); err != nil {
		r.logger.WithError(err).WithField("user_id", userID).Error("cart repo: create")
		return nil, err
	}
	return r.fetchCart(ctx, cartQuery, id)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return r.fetchCart(ctx, cartQuery, id)
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrNotFound
	}
	var id string
	err := r.db.QueryRow(ctx, `
SELECT id::text
FROM carts
WHERE user_id = $1
ORDER BY created_at ASC
LIMIT 1
`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("user_id", userID).Error("cart repo: get by user")
		return nil, err
	}
	return r.fetchCart(ctx, cartQuery, id)
}

func (r *postgresRepo) GetForUpdate(ctx context.Context, id string) (*domain.Cart, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return r.fetchCart(ctx, cartQuery+"FOR UPDATE OF c\n", id)
}

func (r *postgresRepo) GetItem(ctx context.Context, itemID string) (*domain.CartItem, error) {
	if _, err := uuid.Parse(itemID); err != nil {
		return nil, domain.ErrNotFound
	}
	item, err := scanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM cart_items WHERE id = $1`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("item_id", itemID).Error("cart repo: get item")
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) Save(ctx context.Context, cart domain.Cart) error {
	cmd, err := r.db.Exec(ctx, `
UPDATE carts
SET total_cost = $2, bill_discount = $3, user_discount = $4, updated_at = now()
WHERE id = $1
`, cart.ID, cart.TotalCost, cart.BillDiscount, cart.UserDiscount)
	if err != nil {
		r.logger.WithError(err).WithField("cart_id", cart.ID).Error("cart repo: save")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveItem inserts the line or updates its quantity and discount. Name,
// category and price are fixed when the line is first written.
func (r *postgresRepo) SaveItem(ctx context.Context, item domain.CartItem) error {
	discount := decimal.NullDecimal{}
	if item.Discount != nil {
		discount = decimal.NewNullDecimal(*item.Discount)
	}
	_, err := r.db.Exec(ctx, `
INSERT INTO cart_items (id, cart_id, product_id, name, category, quantity, price, discount, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    quantity = EXCLUDED.quantity,
    discount = EXCLUDED.discount
`, item.ID, item.CartID, item.ProductID, item.Name, string(item.Category), item.Quantity, item.Price, discount, item.Position)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{"cart_id": item.CartID, "item_id": item.ID}).Error("cart repo: save item")
		return err
	}
	return nil
}

func (r *postgresRepo) DeleteItem(ctx context.Context, cartID, itemID string) error {
	cmd, err := r.db.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{"cart_id": cartID, "item_id": itemID}).Error("cart repo: delete item")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, query string, args ...any) (*domain.Cart, error) {
	var cart domain.Cart
	var (
		userID      *string
		uID         *string
		uName       *string
		uEmail      *string
		uEmployee   *bool
		uAffiliated *bool
		uRegistered *time.Time
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&cart.ID,
		&userID,
		&cart.TotalCost,
		&cart.BillDiscount,
		&cart.UserDiscount,
		&cart.CreatedAt,
		&cart.UpdatedAt,
		&uID,
		&uName,
		&uEmail,
		&uEmployee,
		&uAffiliated,
		&uRegistered,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("cart_id", args[0]).Error("cart repo: fetch")
		return nil, err
	}
	cart.UserID = userID
	if uID != nil {
		cart.User = &domain.User{
			ID:           *uID,
			Name:         deref(uName),
			Email:        deref(uEmail),
			IsEmployee:   uEmployee != nil && *uEmployee,
			IsAffiliated: uAffiliated != nil && *uAffiliated,
		}
		if uRegistered != nil {
			cart.User.RegisteredOn = *uRegistered
		}
	}

	rows, err := r.db.Query(ctx, `
SELECT `+itemColumns+`
FROM cart_items
WHERE cart_id = $1
ORDER BY position ASC, created_at ASC
`, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func scanItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	var category string
	var discount decimal.NullDecimal
	if err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Name,
		&category,
		&item.Quantity,
		&item.Price,
		&discount,
		&item.Position,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	item.Category = domain.Category(category)
	if discount.Valid {
		d := discount.Decimal
		item.Discount = &d
	}
	return &item, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
