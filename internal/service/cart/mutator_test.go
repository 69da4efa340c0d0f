package cart

import (
	"fmt"
	"math"
	"testing"
	"time"

	"cart-operations/internal/domain"
	"cart-operations/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

var (
	john  = domain.User{ID: "u-john", Name: "John", IsEmployee: true, RegisteredOn: fixedNow.AddDate(0, -1, 0)}
	jane  = domain.User{ID: "u-jane", Name: "Jane", IsAffiliated: true, RegisteredOn: fixedNow.AddDate(0, -1, 0)}
	larry = domain.User{ID: "u-larry", Name: "Larry", RegisteredOn: fixedNow.AddDate(-3, 0, 0)}
	nina  = domain.User{ID: "u-nina", Name: "Nina", RegisteredOn: fixedNow.AddDate(0, -2, 0)}

	rice   = domain.Product{ID: "p-rice", Name: "Rice", Category: domain.CategoryGrocery, Price: decimal.RequireFromString("100")}
	heater = domain.Product{ID: "p-heater", Name: "heater", Category: domain.CategoryElectronics, Price: decimal.RequireFromString("100")}
	ball   = domain.Product{ID: "p-ball", Name: "Ball", Category: domain.CategorySports, Price: decimal.RequireFromString("150")}
)

func newTestMutator() *Mutator {
	calc := pricing.NewCalculator(pricing.DefaultConfig()).WithClock(func() time.Time { return fixedNow })
	m := NewMutator(calc)
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	return m
}

func emptyCart(u domain.User) domain.Cart {
	id := u.ID
	return domain.Cart{ID: "cart-" + u.ID, UserID: &id, User: &u, Items: []domain.CartItem{}}
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal, msg ...string) {
	t.Helper()
	assert.Truef(t, money(want).Equal(got), "want %s, got %s %v", want, got, msg)
}

func assertCartInvariants(t *testing.T, c domain.Cart) {
	t.Helper()
	total, discounts := decimal.Zero, decimal.Zero
	seen := map[string]bool{}
	for _, it := range c.Items {
		total = total.Add(it.Total())
		discounts = discounts.Add(it.DiscountOrZero())
		assert.False(t, seen[it.ProductID], "duplicate line for product %s", it.ProductID)
		seen[it.ProductID] = true
		assert.Equal(t, c.ID, it.CartID)
		assert.Greater(t, it.Quantity, 0)
	}
	assert.True(t, total.Equal(c.TotalCost), "totalCost %s != sum %s", c.TotalCost, total)
	assert.True(t, discounts.Equal(c.UserDiscount), "userDiscount %s != sum %s", c.UserDiscount, discounts)
}

func TestMutator_AddNewLine(t *testing.T) {
	m := newTestMutator()
	cart := emptyCart(john)

	out, idx, err := m.AddItem(cart, heater, 2)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	item := out.Items[idx]
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, "heater", item.Name)
	assert.Equal(t, domain.CategoryElectronics, item.Category)
	assert.Equal(t, 2, item.Quantity)
	assertMoney(t, "60", item.DiscountOrZero())
	assertMoney(t, "200", out.TotalCost)
	assertMoney(t, "10", out.BillDiscount)
	assertMoney(t, "60", out.UserDiscount)
	assertCartInvariants(t, out)

	assert.Empty(t, cart.Items, "input cart must not change")
	assert.True(t, cart.TotalCost.IsZero())
}

func TestMutator_AddMergesSameProduct(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(john), rice, 2)
	require.NoError(t, err)

	out, idx, err := m.AddItem(cart, rice, 2)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 4, out.Items[0].Quantity)
	assert.Equal(t, cart.Items[0].ID, out.Items[0].ID)
	assertMoney(t, "0", out.Items[0].DiscountOrZero(), "grocery is never discounted")
	assertMoney(t, "400", out.TotalCost)
	assertMoney(t, "20", out.BillDiscount)
	assertCartInvariants(t, out)
}

func TestMutator_MergeKeepsSnapshotPrice(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(nina), ball, 1)
	require.NoError(t, err)

	repriced := ball
	repriced.Price = money("999")
	out, _, err := m.AddItem(cart, repriced, 1)
	require.NoError(t, err)
	assertMoney(t, "150", out.Items[0].Price)
	assertMoney(t, "300", out.TotalCost)
	assertCartInvariants(t, out)
}

func TestMutator_AppendsLinesInOrder(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(jane), heater, 5)
	require.NoError(t, err)
	cart, idx, err := m.AddItem(cart, ball, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 1, idx)
	assert.Less(t, cart.Items[0].Position, cart.Items[1].Position)
	assertMoney(t, "50", cart.Items[0].DiscountOrZero())
	assertMoney(t, "15", cart.Items[1].DiscountOrZero())
	assertMoney(t, "650", cart.TotalCost)
	assertMoney(t, "30", cart.BillDiscount)
	assertMoney(t, "65", cart.UserDiscount)
	assertCartInvariants(t, cart)
}

func TestMutator_InvalidQuantity(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(john), heater, 2)
	require.NoError(t, err)
	before := cart.Clone()

	for _, q := range []int{0, -1} {
		_, _, err := m.AddItem(cart, heater, q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

		_, _, err = m.UpdateItemQuantity(cart, cart.Items[0].ID, q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Equal(t, before, cart)
}

func TestMutator_QuantityAboveLimit(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(john), heater, 2)
	require.NoError(t, err)
	before := cart.Clone()

	for _, q := range []int{domain.MaxQuantity + 1, math.MaxInt} {
		_, _, err := m.AddItem(emptyCart(john), ball, q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

		_, _, err = m.UpdateItemQuantity(cart, cart.Items[0].ID, q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Equal(t, before, cart)
}

func TestMutator_MergeCannotOverflowLine(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(john), heater, 2)
	require.NoError(t, err)
	before := cart.Clone()

	for _, q := range []int{math.MaxInt, domain.MaxQuantity, domain.MaxQuantity - 1} {
		out, idx, err := m.AddItem(cart, heater, q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "adding %d", q)
		assert.Equal(t, -1, idx)
		assert.Equal(t, before, out)
	}
	assert.Equal(t, before, cart)

	out, _, err := m.AddItem(cart, heater, domain.MaxQuantity-2)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity, out.Items[0].Quantity)
	assert.True(t, out.Items[0].DiscountOrZero().IsPositive())
	assertCartInvariants(t, out)
}

func TestMutator_UpdateQuantity(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(larry), heater, 2)
	require.NoError(t, err)
	assertMoney(t, "10", cart.Items[0].DiscountOrZero())

	out, idx, err := m.UpdateItemQuantity(cart, cart.Items[0].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Items[idx].Quantity)
	assertMoney(t, "25", out.Items[idx].DiscountOrZero())
	assertMoney(t, "500", out.TotalCost)
	assertMoney(t, "25", out.BillDiscount)
	assertCartInvariants(t, out)

	down, _, err := m.UpdateItemQuantity(out, cart.Items[0].ID, 1)
	require.NoError(t, err)
	assertMoney(t, "100", down.TotalCost)
	assertMoney(t, "5", down.BillDiscount)
	assertCartInvariants(t, down)

	assert.Equal(t, 2, cart.Items[0].Quantity, "input cart must not change")
}

func TestMutator_UpdateUnknownItem(t *testing.T) {
	m := newTestMutator()
	_, _, err := m.UpdateItemQuantity(emptyCart(john), "missing", 1)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestMutator_RemoveLastItem(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(john), heater, 2)
	require.NoError(t, err)

	out, removed, err := m.RemoveItem(cart, cart.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, cart.Items[0].ID, removed.ID)
	assert.Empty(t, out.Items)
	assertMoney(t, "0", out.TotalCost)
	assertMoney(t, "0", out.UserDiscount)
	assertMoney(t, "0", out.BillDiscount)
	require.Len(t, cart.Items, 1, "input cart must not change")
}

func TestMutator_RemoveKeepsOtherLines(t *testing.T) {
	m := newTestMutator()
	cart, _, err := m.AddItem(emptyCart(jane), heater, 5)
	require.NoError(t, err)
	cart, _, err = m.AddItem(cart, ball, 1)
	require.NoError(t, err)

	out, _, err := m.RemoveItem(cart, cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "p-ball", out.Items[0].ProductID)
	assertMoney(t, "150", out.TotalCost)
	assertMoney(t, "15", out.UserDiscount)
	assertMoney(t, "5", out.BillDiscount)
	assertCartInvariants(t, out)
}

func TestMutator_RemoveUnknownItem(t *testing.T) {
	m := newTestMutator()
	_, _, err := m.RemoveItem(emptyCart(john), "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestMutator_NegativeTotalLeavesCartUnchanged(t *testing.T) {
	m := newTestMutator()
	corrupted := emptyCart(john)
	corrupted.Items = []domain.CartItem{{
		ID: "item-x", CartID: corrupted.ID, ProductID: heater.ID, Category: heater.Category,
		Quantity: 2, Price: heater.Price,
	}}
	before := corrupted.Clone()

	_, _, err := m.RemoveItem(corrupted, "item-x")
	assert.ErrorIs(t, err, domain.ErrNegativeTotalCost)
	assert.Equal(t, before, corrupted)
}

func TestMutator_CartWithoutUser(t *testing.T) {
	m := newTestMutator()
	cart := domain.Cart{ID: "orphan", Items: []domain.CartItem{}}

	_, _, err := m.AddItem(cart, heater, 1)
	assert.ErrorIs(t, err, domain.ErrUserNotAttachedToCart)
	assert.Empty(t, cart.Items)
}

func TestMutator_InvariantsAcrossSequence(t *testing.T) {
	m := newTestMutator()
	cart := emptyCart(larry)
	var err error

	steps := []func(c domain.Cart) (domain.Cart, error){
		func(c domain.Cart) (domain.Cart, error) {
			out, _, err := m.AddItem(c, rice, 3)
			return out, err
		},
		func(c domain.Cart) (domain.Cart, error) {
			out, _, err := m.AddItem(c, heater, 1)
			return out, err
		},
		func(c domain.Cart) (domain.Cart, error) {
			out, _, err := m.AddItem(c, ball, 2)
			return out, err
		},
		func(c domain.Cart) (domain.Cart, error) {
			out, _, err := m.AddItem(c, heater, 4)
			return out, err
		},
		func(c domain.Cart) (domain.Cart, error) {
			out, _, err := m.UpdateItemQuantity(c, c.Items[0].ID, 1)
			return out, err
		},
		func(c domain.Cart) (domain.Cart, error) {
			out, _, err := m.RemoveItem(c, c.Items[1].ID)
			return out, err
		},
	}
	for i, step := range steps {
		cart, err = step(cart)
		require.NoError(t, err, "step %d", i)
		assertCartInvariants(t, cart)
	}
	assertMoney(t, "400", cart.TotalCost)
	assertMoney(t, "20", cart.BillDiscount)
	assertMoney(t, "15", cart.UserDiscount)
}
