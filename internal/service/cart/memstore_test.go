package cart

import (
	"context"
	"errors"
	"sort"

	"cart-operations/internal/domain"
	"cart-operations/internal/repository"
	cartrepo "cart-operations/internal/repository/cart"
	productrepo "cart-operations/internal/repository/product"
	userrepo "cart-operations/internal/repository/user"
)

// memStore is an in-memory TxManager. WithinTx works on a copy of the data
// and keeps it only when fn succeeds.
type memStore struct {
	carts    map[string]domain.Cart
	items    map[string]domain.CartItem
	products map[string]domain.Product
	users    map[string]domain.User

	saveErr     error
	saveItemErr error
	deleteErr   error
	commits     int
}

func newMemStore() *memStore {
	return &memStore{
		carts:    map[string]domain.Cart{},
		items:    map[string]domain.CartItem{},
		products: map[string]domain.Product{},
		users:    map[string]domain.User{},
	}
}

func (m *memStore) WithinTx(_ context.Context, fn func(r repository.Repos) error) error {
	tx := m.snapshot()
	if err := fn(tx); err != nil {
		return err
	}
	m.carts, m.items, m.products, m.users = tx.carts, tx.items, tx.products, tx.users
	m.commits++
	return nil
}

func (m *memStore) snapshot() *memStore {
	tx := newMemStore()
	for k, v := range m.carts {
		tx.carts[k] = v.Clone()
	}
	for k, v := range m.items {
		tx.items[k] = v
	}
	for k, v := range m.products {
		tx.products[k] = v
	}
	for k, v := range m.users {
		tx.users[k] = v
	}
	tx.saveErr, tx.saveItemErr, tx.deleteErr = m.saveErr, m.saveItemErr, m.deleteErr
	return tx
}

func (m *memStore) Carts() cartrepo.Repository       { return memCarts{m} }
func (m *memStore) Products() productrepo.Repository { return memProducts{m} }
func (m *memStore) Users() userrepo.Repository       { return memUsers{m} }

// stored returns the committed cart with its items.
func (m *memStore) stored(id string) domain.Cart {
	c, _ := memCarts{m}.GetByID(context.Background(), id)
	return *c
}

type memCarts struct{ m *memStore }

func (r memCarts) Create(_ context.Context, userID string) (*domain.Cart, error) {
	id := "cart-" + userID
	u := r.m.users[userID]
	r.m.carts[id] = domain.Cart{ID: id, UserID: &userID, User: &u}
	return r.GetByID(context.Background(), id)
}

func (r memCarts) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	c, ok := r.m.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := c.Clone()
	out.Items = []domain.CartItem{}
	for _, it := range r.m.items {
		if it.CartID == id {
			out.Items = append(out.Items, it)
		}
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].Position < out.Items[j].Position })
	return &out, nil
}

func (r memCarts) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	for id, c := range r.m.carts {
		if c.UserID != nil && *c.UserID == userID {
			return r.GetByID(ctx, id)
		}
	}
	return nil, domain.ErrNotFound
}

func (r memCarts) GetForUpdate(ctx context.Context, id string) (*domain.Cart, error) {
	return r.GetByID(ctx, id)
}

func (r memCarts) GetItem(_ context.Context, itemID string) (*domain.CartItem, error) {
	it, ok := r.m.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (r memCarts) Save(_ context.Context, cart domain.Cart) error {
	if r.m.saveErr != nil {
		return r.m.saveErr
	}
	if _, ok := r.m.carts[cart.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := cart.Clone()
	stored.Items = nil
	r.m.carts[cart.ID] = stored
	return nil
}

func (r memCarts) SaveItem(_ context.Context, item domain.CartItem) error {
	if r.m.saveItemErr != nil {
		return r.m.saveItemErr
	}
	r.m.items[item.ID] = item
	return nil
}

func (r memCarts) DeleteItem(_ context.Context, cartID, itemID string) error {
	if r.m.deleteErr != nil {
		return r.m.deleteErr
	}
	it, ok := r.m.items[itemID]
	if !ok || it.CartID != cartID {
		return domain.ErrNotFound
	}
	delete(r.m.items, itemID)
	return nil
}

type memProducts struct{ m *memStore }

func (r memProducts) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.m.products))
	for _, p := range r.m.products {
		out = append(out, p)
	}
	return out, nil
}

func (r memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	r.m.products[p.ID] = p
	return &p, nil
}

type memUsers struct{ m *memStore }

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByName(_ context.Context, name string) (*domain.User, error) {
	for _, u := range r.m.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	if _, ok := r.m.users[u.ID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	return r.Upsert(ctx, u)
}

func (r memUsers) Upsert(_ context.Context, u domain.User) (*domain.User, error) {
	if u.ID == "" {
		return nil, errors.New("id required")
	}
	r.m.users[u.ID] = u
	return &u, nil
}
