package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cart-operations/internal/domain"
	"cart-operations/internal/logging"
	"cart-operations/internal/repository"

	"github.com/sirupsen/logrus"
)

// Service runs cart operations. Each call is one transaction: the cart row is
// locked, mutated in memory, then the touched line and the cart are written.
type Service struct {
	tx      repository.TxManager
	mutator *Mutator
	logger  logrus.FieldLogger
}

func New(tx repository.TxManager, p pricer, logger logrus.FieldLogger) *Service {
	return &Service{tx: tx, mutator: NewMutator(p), logger: logging.OrDiscard(logger)}
}

func (s *Service) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	defer s.track("get cart", cartID)()

	var out *domain.Cart
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		cart, err := r.Carts().GetByID(ctx, cartID)
		if err != nil {
			return notFoundAs(err, domain.ErrCartNotFound, cartID)
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCart opens an empty cart for an existing user.
func (s *Service) CreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	defer s.track("create cart", "")()

	var out *domain.Cart
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		if _, err := r.Users().GetByID(ctx, userID); err != nil {
			return notFoundAs(err, domain.ErrUserNotFound, userID)
		}
		cart, err := r.Carts().Create(ctx, userID)
		if err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	defer s.track("add item", cartID)()

	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	var out *domain.Cart
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		cart, err := r.Carts().GetForUpdate(ctx, cartID)
		if err != nil {
			return notFoundAs(err, domain.ErrCartNotFound, cartID)
		}
		product, err := r.Products().GetByID(ctx, productID)
		if err != nil {
			return notFoundAs(err, domain.ErrProductNotFound, productID)
		}
		updated, idx, err := s.mutator.AddItem(*cart, *product, quantity)
		if err != nil {
			return err
		}
		if err := r.Carts().SaveItem(ctx, updated.Items[idx]); err != nil {
			return err
		}
		if err := r.Carts().Save(ctx, updated); err != nil {
			return notFoundAs(err, domain.ErrCartNotFound, cartID)
		}
		out = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.Cart, error) {
	defer s.track("update item quantity", cartID)()

	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	var out *domain.Cart
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		cart, err := r.Carts().GetForUpdate(ctx, cartID)
		if err != nil {
			return notFoundAs(err, domain.ErrCartNotFound, cartID)
		}
		if err := s.requireItem(ctx, r, cart, itemID); err != nil {
			return err
		}
		updated, idx, err := s.mutator.UpdateItemQuantity(*cart, itemID, quantity)
		if err != nil {
			return err
		}
		if err := r.Carts().SaveItem(ctx, updated.Items[idx]); err != nil {
			return err
		}
		if err := r.Carts().Save(ctx, updated); err != nil {
			return notFoundAs(err, domain.ErrCartNotFound, cartID)
		}
		out = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) (*domain.Cart, error) {
	defer s.track("remove item", cartID)()

	var out *domain.Cart
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		cart, err := r.Carts().GetForUpdate(ctx, cartID)
		if err != nil {
			return notFoundAs(err, domain.ErrCartNotFound, cartID)
		}
		if err := s.requireItem(ctx, r, cart, itemID); err != nil {
			return err
		}
		updated, removed, err := s.mutator.RemoveItem(*cart, itemID)
		if err != nil {
			return err
		}
		if err := r.Carts().DeleteItem(ctx, cart.ID, removed.ID); err != nil {
			return notFoundAs(err, domain.ErrItemNotFound, itemID)
		}
		if err := r.Carts().Save(ctx, updated); err != nil {
			return notFoundAs(err, domain.ErrCartNotFound, cartID)
		}
		out = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// requireItem reports ErrItemNotFound when itemID is not a line of cart,
// including lines that exist but belong to another cart.
func (s *Service) requireItem(ctx context.Context, r repository.Repos, cart *domain.Cart, itemID string) error {
	if cart.FindItem(itemID) >= 0 {
		return nil
	}
	item, err := r.Carts().GetItem(ctx, itemID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	case err != nil:
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"cart_id":       cart.ID,
		"item_id":       itemID,
		"owner_cart_id": item.CartID,
	}).Warn("item belongs to another cart")
	return fmt.Errorf("%w: %s is not in cart %s", domain.ErrItemNotFound, itemID, cart.ID)
}

// track logs the start of an operation and returns a func that logs its
// elapsed time.
func (s *Service) track(op, cartID string) func() {
	entry := s.logger.WithField("op", op)
	if cartID != "" {
		entry = entry.WithField("cart_id", cartID)
	}
	entry.Debug("cart operation started")
	start := time.Now()
	return func() {
		entry.WithField("duration_ms", time.Since(start).Milliseconds()).Info("cart operation finished")
	}
}

func notFoundAs(err, kind error, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", kind, id)
	}
	return err
}
