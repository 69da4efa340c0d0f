package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cart-operations/internal/domain"
	"cart-operations/internal/logging"
	"cart-operations/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type productSeed struct {
	Name        string
	Description string
	Category    domain.Category
	Price       string
	Quantity    int
}

type userSeed struct {
	Name       string
	Email      string
	Employee   bool
	Affiliated bool
	Registered func(now time.Time) time.Time
}

var products = []productSeed{
	{Name: "Rice", Description: "Basmati rice, 1kg", Category: domain.CategoryGrocery, Price: "100.00", Quantity: 25},
	{Name: "Wheat", Description: "Whole wheat flour, 1kg", Category: domain.CategoryGrocery, Price: "110.00", Quantity: 50},
	{Name: "heater", Description: "Oil filled room heater", Category: domain.CategoryElectronics, Price: "150.00", Quantity: 10},
	{Name: "Ball", Description: "Size 5 football", Category: domain.CategorySports, Price: "20.00", Quantity: 100},
}

var users = []userSeed{
	{Name: "John", Email: "john@tmail.com", Employee: true, Registered: func(now time.Time) time.Time { return now }},
	{Name: "Jane", Email: "jane@tmail.com", Affiliated: true, Registered: func(now time.Time) time.Time { return now }},
	{Name: "Larry", Email: "larry@tmail.com", Registered: func(now time.Time) time.Time { return now.AddDate(-2, -1, 0) }},
	{Name: "Nina", Email: "nina@tmail.com", Registered: func(now time.Time) time.Time { return now.AddDate(0, -1, 0) }},
}

// Apply inserts demo products, users and one empty cart per user. It is
// idempotent: products and users are upserted and a cart is only created for
// users that have none.
func Apply(ctx context.Context, tm repository.TxManager, now time.Time, logger logrus.FieldLogger) error {
	logger = logging.OrDiscard(logger)
	return tm.WithinTx(ctx, func(r repository.Repos) error {
		for _, p := range products {
			price, err := decimal.NewFromString(p.Price)
			if err != nil {
				return fmt.Errorf("product %s price: %w", p.Name, err)
			}
			saved, err := r.Products().Upsert(ctx, domain.Product{
				Name:              p.Name,
				Description:       p.Description,
				Category:          p.Category,
				Price:             price,
				AvailableQuantity: p.Quantity,
			})
			if err != nil {
				return fmt.Errorf("upsert product %s: %w", p.Name, err)
			}
			logger.WithFields(logrus.Fields{"product_id": saved.ID, "name": saved.Name}).Debug("seeded product")
		}

		for _, u := range users {
			saved, err := r.Users().Upsert(ctx, domain.User{
				Name:         u.Name,
				Email:        u.Email,
				IsEmployee:   u.Employee,
				IsAffiliated: u.Affiliated,
				RegisteredOn: u.Registered(now),
			})
			if err != nil {
				return fmt.Errorf("upsert user %s: %w", u.Name, err)
			}
			cart, err := r.Carts().GetByUser(ctx, saved.ID)
			if errors.Is(err, domain.ErrNotFound) {
				cart, err = r.Carts().Create(ctx, saved.ID)
			}
			if err != nil {
				return fmt.Errorf("cart for %s: %w", u.Name, err)
			}
			logger.WithFields(logrus.Fields{"user": saved.Name, "cart_id": cart.ID}).Info("seeded user")
		}
		return nil
	})
}
