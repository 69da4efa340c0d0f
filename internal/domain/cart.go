package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a single line can hold. Line quantities
// are stored as 32-bit integers.
const MaxQuantity = math.MaxInt32

// ValidateQuantity rejects quantities outside 1..MaxQuantity.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	return nil
}

type Cart struct {
	ID           string          `json:"id"`
	UserID       *string         `json:"userId,omitempty"`
	User         *User           `json:"user,omitempty"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	BillDiscount decimal.Decimal `json:"billDiscount"`
	UserDiscount decimal.Decimal `json:"userDiscount"`
	Items        []CartItem      `json:"items"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CartItem is one line of a cart. Price is the product price at the time the
// line was created.
type CartItem struct {
	ID        string           `json:"id"`
	CartID    string           `json:"cartId"`
	ProductID string           `json:"productId"`
	Name      string           `json:"name"`
	Category  Category         `json:"category"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
	Position  int              `json:"position"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Total is price times quantity, before discounts.
func (i CartItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DiscountOrZero treats an unset discount as zero.
func (i CartItem) DiscountOrZero() decimal.Decimal {
	if i.Discount == nil {
		return decimal.Zero
	}
	return *i.Discount
}

// FindItem returns the index of the item with the given id, or -1.
func (c *Cart) FindItem(itemID string) int {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return idx
		}
	}
	return -1
}

// FindItemByProduct returns the index of the line for productID, or -1.
func (c *Cart) FindItemByProduct(productID string) int {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return idx
		}
	}
	return -1
}

// Clone copies the cart and its items so mutations on the copy never leak
// into the original.
func (c Cart) Clone() Cart {
	out := c
	if c.UserID != nil {
		id := *c.UserID
		out.UserID = &id
	}
	if c.User != nil {
		u := *c.User
		out.User = &u
	}
	out.Items = make([]CartItem, len(c.Items))
	for idx, it := range c.Items {
		if it.Discount != nil {
			d := *it.Discount
			it.Discount = &d
		}
		out.Items[idx] = it
	}
	return out
}
