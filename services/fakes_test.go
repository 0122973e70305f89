package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go-shop/errs"
	"go-shop/models"
	"go-shop/repository"
	"go-shop/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.User

	createErr error
	findErr   error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, x := range f.byID {
		if x.Username == u.Username || x.Email == u.Email {
			return errs.ErrConflict
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cpy := *u
	f.byID[u.ID] = &cpy
	return nil
}

func (f *fakeUsers) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *u
	cpy.Addresses = append([]models.Address(nil), u.Addresses...)
	return &cpy, nil
}

func (f *fakeUsers) AddAddress(_ context.Context, id primitive.ObjectID, addr models.Address) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	u.Addresses = append(u.Addresses, addr)
	return append([]models.Address(nil), u.Addresses...), nil
}

func (f *fakeUsers) SetAddresses(_ context.Context, id primitive.ObjectID, addrs []models.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.Addresses = append([]models.Address(nil), addrs...)
	return nil
}

type fakeCarts struct {
	byUser  map[primitive.ObjectID]*models.Cart
	saveErr error
	saves   int
}

var _ repository.CartRepository = (*fakeCarts)(nil)

func newFakeCarts() *fakeCarts {
	return &fakeCarts{byUser: map[primitive.ObjectID]*models.Cart{}}
}

func (f *fakeCarts) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	c, ok := f.byUser[userID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *c
	cpy.Items = append([]models.CartItem{}, c.Items...)
	return &cpy, nil
}

func (f *fakeCarts) Save(_ context.Context, c *models.Cart) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cpy := *c
	cpy.Items = append([]models.CartItem{}, c.Items...)
	f.byUser[c.UserID] = &cpy
	return nil
}

func (f *fakeCarts) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	if _, ok := f.byUser[userID]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byUser, userID)
	return nil
}

type fakeProducts struct {
	byID       map[primitive.ObjectID]*models.Product
	lastFilter repository.ProductFilter
	findErr    error
}

var _ repository.ProductRepository = (*fakeProducts)(nil)

func newFakeProducts() *fakeProducts {
	return &fakeProducts{byID: map[primitive.ObjectID]*models.Product{}}
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cpy := *p
	f.byID[p.ID] = &cpy
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *p
	return &cpy, nil
}

func (f *fakeProducts) Find(_ context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	f.lastFilter = filter
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := []models.Product{}
	for _, p := range f.byID {
		if !filter.Seller.IsZero() && p.Seller != filter.Seller {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	cur, ok := f.byID[p.ID]
	if !ok || cur.Seller != p.Seller {
		return errs.ErrNotFound
	}
	cpy := *p
	f.byID[p.ID] = &cpy
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id, seller primitive.ObjectID) error {
	cur, ok := f.byID[id]
	if !ok || cur.Seller != seller {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeImages struct {
	saved [][]byte
	err   error
}

var _ utils.ImageStore = (*fakeImages)(nil)

func (f *fakeImages) Save(_ context.Context, filename string, r io.Reader) (models.Image, error) {
	if f.err != nil {
		return models.Image{}, f.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return models.Image{}, err
	}
	f.saved = append(f.saved, buf.Bytes())
	return models.Image{ID: filename, URL: "http://img/" + filename, Thumbnail: "http://img/" + filename}, nil
}

type sentMail struct {
	to, subject string
}

type fakeMailer struct {
	sent chan sentMail
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentMail, 8)}
}

func (m *fakeMailer) SendEmail(_ context.Context, to, subject, _ string) error {
	m.sent <- sentMail{to: to, subject: subject}
	return m.err
}

// failingStore is a revocation store whose backend is down.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Revoke(context.Context, string, time.Duration) error { return errStoreDown }
func (failingStore) IsRevoked(context.Context, string) (bool, error)     { return false, errStoreDown }
func (failingStore) Close() error                                        { return nil }
