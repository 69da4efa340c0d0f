package cart

import (
	"fmt"

	"cart-operations/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type pricer interface {
	ApplyItem(cart *domain.Cart, idx int) error
	Recompute(cart *domain.Cart) error
}

// Mutator applies line changes to a cart and reprices it. Every method works
// on a copy, so the cart passed in is never modified.
type Mutator struct {
	pricer pricer
	newID  func() string
}

func NewMutator(p pricer) *Mutator {
	return &Mutator{pricer: p, newID: uuid.NewString}
}

// AddItem merges quantity into the line for product, or appends a new line
// priced at the current product price. It returns the updated cart and the
// index of the touched line.
func (m *Mutator) AddItem(cart domain.Cart, product domain.Product, quantity int) (domain.Cart, int, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return cart, -1, err
	}
	idx := cart.FindItemByProduct(product.ID)
	if idx >= 0 && quantity > domain.MaxQuantity-cart.Items[idx].Quantity {
		return cart, -1, fmt.Errorf("%w: %d more on top of %d exceeds %d",
			domain.ErrInvalidQuantity, quantity, cart.Items[idx].Quantity, domain.MaxQuantity)
	}
	out := cart.Clone()

	if idx >= 0 {
		out.Items[idx].Quantity += quantity
	} else {
		out.Items = append(out.Items, domain.CartItem{
			ID:        m.newID(),
			CartID:    out.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Quantity:  quantity,
			Price:     product.Price,
			Position:  nextPosition(out.Items),
		})
		idx = len(out.Items) - 1
	}
	added := out.Items[idx].Price.Mul(decimal.NewFromInt(int64(quantity)))
	out.TotalCost = out.TotalCost.Add(added)

	if err := m.pricer.ApplyItem(&out, idx); err != nil {
		return cart, -1, err
	}
	return out, idx, nil
}

// UpdateItemQuantity sets the quantity of an existing line.
func (m *Mutator) UpdateItemQuantity(cart domain.Cart, itemID string, quantity int) (domain.Cart, int, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return cart, -1, err
	}
	idx := cart.FindItem(itemID)
	if idx < 0 {
		return cart, -1, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	out := cart.Clone()

	item := &out.Items[idx]
	delta := decimal.NewFromInt(int64(quantity - item.Quantity))
	out.TotalCost = out.TotalCost.Add(item.Price.Mul(delta))
	item.Quantity = quantity

	if err := m.pricer.ApplyItem(&out, idx); err != nil {
		return cart, -1, err
	}
	return out, idx, nil
}

// RemoveItem drops a line and returns the updated cart with the removed line.
func (m *Mutator) RemoveItem(cart domain.Cart, itemID string) (domain.Cart, domain.CartItem, error) {
	idx := cart.FindItem(itemID)
	if idx < 0 {
		return cart, domain.CartItem{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	out := cart.Clone()

	removed := out.Items[idx]
	out.TotalCost = out.TotalCost.Sub(removed.Total())
	out.Items = append(out.Items[:idx], out.Items[idx+1:]...)

	if err := m.pricer.Recompute(&out); err != nil {
		return cart, domain.CartItem{}, err
	}
	return out, removed, nil
}

func nextPosition(items []domain.CartItem) int {
	next := 0
	for _, it := range items {
		if it.Position >= next {
			next = it.Position + 1
		}
	}
	return next
}
