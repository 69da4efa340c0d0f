package cart

import (
	"context"

	"cart-operations/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	// GetByUser returns the oldest cart of the user.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// GetForUpdate loads the cart and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Cart, error)
	GetItem(ctx context.Context, itemID string) (*domain.CartItem, error)
	Save(ctx context.Context, cart domain.Cart) error
	SaveItem(ctx context.Context, item domain.CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID string) error
}
