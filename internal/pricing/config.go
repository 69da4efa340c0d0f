package pricing

import (
	"errors"
	"fmt"

	"cart-operations/internal/domain"

	"github.com/shopspring/decimal"
)

// Config holds the discount rules.
type Config struct {
	NonDiscountedCategories []domain.Category
	BillDiscountUnit        decimal.Decimal
	BillDiscountRate        decimal.Decimal
	EmployeePercent         decimal.Decimal
	AffiliatedPercent       decimal.Decimal
	LoyaltyPercent          decimal.Decimal
	LoyaltyPeriodYears      int
}

// DefaultConfig matches the store's published discount policy.
func DefaultConfig() Config {
	return Config{
		NonDiscountedCategories: []domain.Category{domain.CategoryGrocery},
		BillDiscountUnit:        decimal.NewFromInt(5),
		BillDiscountRate:        decimal.NewFromInt(100),
		EmployeePercent:         decimal.NewFromInt(30),
		AffiliatedPercent:       decimal.NewFromInt(10),
		LoyaltyPercent:          decimal.NewFromInt(5),
		LoyaltyPeriodYears:      2,
	}
}

func (c Config) Validate() error {
	if !c.BillDiscountRate.IsPositive() {
		return errors.New("bill discount rate must be positive")
	}
	if c.BillDiscountUnit.IsNegative() {
		return errors.New("bill discount unit must not be negative")
	}
	for name, pct := range map[string]decimal.Decimal{
		"employee":   c.EmployeePercent,
		"affiliated": c.AffiliatedPercent,
		"loyalty":    c.LoyaltyPercent,
	} {
		if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%s discount must be between 0 and 100, got %s", name, pct)
		}
	}
	if c.LoyaltyPeriodYears < 0 {
		return errors.New("loyalty period must not be negative")
	}
	return nil
}
