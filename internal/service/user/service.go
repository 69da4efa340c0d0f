package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cart-operations/internal/domain"
	userrepo "cart-operations/internal/repository/user"
)

// Service handles user registration and lookup.
type Service struct {
	repo userrepo.Repository
	now  func() time.Time
}

func New(repo userrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// RegisterInput captures fields expected by the registration endpoint.
type RegisterInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	IsEmployee   bool   `json:"isEmployee"`
	IsAffiliated bool   `json:"isAffiliated"`
}

// Register creates a user registered now. The email is stored lowercased and
// must be unused.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		IsEmployee:   in.IsEmployee,
		IsAffiliated: in.IsAffiliated,
		RegisteredOn: s.now().UTC(),
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: email %s", domain.ErrAlreadyExists, email)
	}
	return created, err
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return u, err
}

// FindByName returns the earliest registered user carrying name.
func (s *Service) FindByName(ctx context.Context, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	u, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, name)
	}
	return u, err
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("%w: email %q is not valid", domain.ErrInvalidInput, email)
	}
	return nil
}
