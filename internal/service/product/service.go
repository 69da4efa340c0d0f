package product

import (
	"context"
	"errors"
	"fmt"

	"cart-operations/internal/domain"
	productrepo "cart-operations/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAsProduct(err, id)
	}
	return p, nil
}

func notFoundAsProduct(err error, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return err
}
