package pricing

import (
	"fmt"
	"time"

	"cart-operations/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculator computes item and bill discounts. It holds no state besides its
// configuration and clock, so one instance is shared by all requests.
type Calculator struct {
	cfg        Config
	noDiscount map[domain.Category]struct{}
	now        func() time.Time
}

func NewCalculator(cfg Config) *Calculator {
	set := make(map[domain.Category]struct{}, len(cfg.NonDiscountedCategories))
	for _, c := range cfg.NonDiscountedCategories {
		set[c] = struct{}{}
	}
	return &Calculator{cfg: cfg, noDiscount: set, now: time.Now}
}

// WithClock returns a copy of the calculator reading time from now.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	clone := *c
	clone.now = now
	return &clone
}

// ItemDiscount returns the discount for one line. Only one tier applies:
// employee, then affiliated, then loyalty.
func (c *Calculator) ItemDiscount(item domain.CartItem, user domain.User) decimal.Decimal {
	if _, skip := c.noDiscount[item.Category]; skip {
		return decimal.Zero
	}
	total := item.Total()
	var pct decimal.Decimal
	switch {
	case user.IsEmployee:
		pct = c.cfg.EmployeePercent
	case user.IsAffiliated:
		pct = c.cfg.AffiliatedPercent
	case user.RegisteredOn.Before(c.loyaltyCutoff()):
		pct = c.cfg.LoyaltyPercent
	default:
		return decimal.Zero
	}
	return total.Mul(pct).Div(hundred).RoundBank(2)
}

// BillDiscount grants one unit for every full rate of total cost.
func (c *Calculator) BillDiscount(totalCost decimal.Decimal) (decimal.Decimal, error) {
	if totalCost.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrNegativeTotalCost, totalCost)
	}
	times, _ := totalCost.QuoRem(c.cfg.BillDiscountRate, 0)
	return times.Mul(c.cfg.BillDiscountUnit), nil
}

// Recompute refreshes the cart level discounts from the current total and
// the item discounts already set on the lines.
func (c *Calculator) Recompute(cart *domain.Cart) error {
	bill, err := c.BillDiscount(cart.TotalCost)
	if err != nil {
		return fmt.Errorf("cart %s: %w", cart.ID, err)
	}
	userDiscount := decimal.Zero
	for _, it := range cart.Items {
		userDiscount = userDiscount.Add(it.DiscountOrZero())
	}
	cart.BillDiscount = bill
	cart.UserDiscount = userDiscount
	return nil
}

// ApplyItem sets the discount of the line at idx and then recomputes the cart.
func (c *Calculator) ApplyItem(cart *domain.Cart, idx int) error {
	if idx < 0 || idx >= len(cart.Items) {
		return fmt.Errorf("%w: index %d", domain.ErrItemNotAttachedToCart, idx)
	}
	item := &cart.Items[idx]
	if item.CartID != cart.ID {
		return fmt.Errorf("%w: item %s", domain.ErrItemNotAttachedToCart, item.ID)
	}
	if cart.User == nil {
		return fmt.Errorf("%w: cart %s", domain.ErrUserNotAttachedToCart, cart.ID)
	}
	discount := c.ItemDiscount(*item, *cart.User)
	item.Discount = &discount
	return c.Recompute(cart)
}

func (c *Calculator) loyaltyCutoff() time.Time {
	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(-c.cfg.LoyaltyPeriodYears, 0, 0)
}
