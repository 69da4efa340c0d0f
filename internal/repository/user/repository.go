package user

import (
	"context"

	"cart-operations/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	// Create fails with domain.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}
