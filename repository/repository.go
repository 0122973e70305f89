// Package repository defines the persistence interfaces used by services.
package repository

import (
	"context"

	"go-shop/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts u and assigns its ID. Duplicate username/email yields errs.ErrConflict.
	Create(ctx context.Context, u *models.User) error
	// FindByUsernameOrEmail matches any non-empty argument.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	// FindByID loads a user by ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// AddAddress appends addr and returns the updated address list.
	AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) ([]models.Address, error)
	// SetAddresses overwrites the address list.
	SetAddresses(ctx context.Context, userID primitive.ObjectID, addrs []models.Address) error
}

// CartRepository persists one cart per user.
type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// Save upserts the cart keyed by its user.
	Save(ctx context.Context, c *models.Cart) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Seller   primitive.ObjectID
	Skip     int64
	Limit    int64
}

// ProductRepository persists catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, f ProductFilter) ([]models.Product, error)
	// Update replaces the product owned by p.Seller.
	Update(ctx context.Context, p *models.Product) error
	// Delete removes the product only when owned by seller.
	Delete(ctx context.Context, id, seller primitive.ObjectID) error
}
