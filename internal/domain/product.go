package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryGrocery     Category = "GROCERY"
	CategoryElectronics Category = "ELECTRONICS"
	CategorySports      Category = "SPORTS"
	CategoryClothing    Category = "CLOTHING"
	CategoryHome        Category = "HOME"
)

var categories = []Category{
	CategoryGrocery,
	CategoryElectronics,
	CategorySports,
	CategoryClothing,
	CategoryHome,
}

// ParseCategory accepts any casing and rejects unknown names.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

type Product struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	Description             string          `json:"description,omitempty"`
	Category                Category        `json:"category"`
	Price                   decimal.Decimal `json:"price"`
	AvailableQuantity       int             `json:"availableQuantity"`
	EmployeeDiscountEnabled bool            `json:"employeeDiscountEnabled"`
	CreatedAt               time.Time       `json:"createdAt"`
}
