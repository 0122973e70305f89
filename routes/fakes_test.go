package routes

import (
	"context"
	"sync"

	"go-shop/errs"
	"go-shop/models"
	"go-shop/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

var _ repository.UserRepository = (*memUsers)(nil)

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Username == u.Username || x.Email == u.Email {
			return errs.ErrConflict
		}
	}
	u.ID = primitive.NewObjectID()
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	u.Addresses = append([]models.Address(nil), u.Addresses...)
	return &u, nil
}

func (m *memUsers) AddAddress(_ context.Context, id primitive.ObjectID, a models.Address) ([]models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	u.Addresses = append(append([]models.Address(nil), u.Addresses...), a)
	m.users[id] = u
	return u.Addresses, nil
}

func (m *memUsers) SetAddresses(_ context.Context, id primitive.ObjectID, addrs []models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.Addresses = addrs
	m.users[id] = u
	return nil
}

type memCarts struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]models.Cart
}

var _ repository.CartRepository = (*memCarts)(nil)

func (m *memCarts) FindByUser(_ context.Context, uid primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[uid]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c.Items = append([]models.CartItem{}, c.Items...)
	return &c, nil
}

func (m *memCarts) Save(_ context.Context, c *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cpy := *c
	cpy.Items = append([]models.CartItem{}, c.Items...)
	m.carts[c.UserID] = cpy
	return nil
}

func (m *memCarts) DeleteByUser(_ context.Context, uid primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[uid]; !ok {
		return errs.ErrNotFound
	}
	delete(m.carts, uid)
	return nil
}

type memProducts struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

var _ repository.ProductRepository = (*memProducts)(nil)

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.products[p.ID] = *p
	return nil
}

func (m *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) Find(_ context.Context, f repository.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		if !f.Seller.IsZero() && p.Seller != f.Seller {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.products[p.ID]
	if !ok || cur.Seller != p.Seller {
		return errs.ErrNotFound
	}
	m.products[p.ID] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id, seller primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.products[id]
	if !ok || cur.Seller != seller {
		return errs.ErrNotFound
	}
	delete(m.products, id)
	return nil
}
