package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-shop/errs"
	"go-shop/models"
	"go-shop/repository"
	"go-shop/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressInput is a new delivery address.
type AddressInput struct {
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Pincode   string `json:"pincode" validate:"required"`
	Country   string `json:"country" validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

// UserService manages the authenticated user's addresses.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListAddresses returns the user's saved addresses.
func (s *UserService) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	uid, err := userObjectID(userID)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("user", err)
	}
	if u.Addresses == nil {
		return []models.Address{}, nil
	}
	return u.Addresses, nil
}

// AddAddress appends an address with a fresh ID and returns the updated list.
func (s *UserService) AddAddress(ctx context.Context, userID string, in AddressInput) ([]models.Address, error) {
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Country = strings.TrimSpace(in.Country)
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	uid, err := userObjectID(userID)
	if err != nil {
		return nil, err
	}

	addrs, err := s.users.AddAddress(ctx, uid, models.Address{
		ID:        primitive.NewObjectID(),
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		Pincode:   in.Pincode,
		Country:   in.Country,
		IsDefault: in.IsDefault,
	})
	if err != nil {
		return nil, lookupErr("user", err)
	}
	return addrs, nil
}

// DeleteAddress removes one address and returns the remaining list.
// Concurrent edits to the same user's list are last-write-wins.
func (s *UserService) DeleteAddress(ctx context.Context, userID, addressID string) ([]models.Address, error) {
	uid, err := userObjectID(userID)
	if err != nil {
		return nil, err
	}
	aid, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		return nil, fmt.Errorf("address %w", errs.ErrNotFound)
	}

	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("user", err)
	}
	remaining := make([]models.Address, 0, len(u.Addresses))
	for _, a := range u.Addresses {
		if a.ID != aid {
			remaining = append(remaining, a)
		}
	}
	if len(remaining) == len(u.Addresses) {
		return nil, fmt.Errorf("address %w", errs.ErrNotFound)
	}

	if err := s.users.SetAddresses(ctx, uid, remaining); err != nil {
		return nil, lookupErr("user", err)
	}
	return remaining, nil
}

// userObjectID parses the id of an authenticated identity. Tokens only carry
// ids we issued, so a malformed one means the account is gone.
func userObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("user %w", errs.ErrNotFound)
	}
	return oid, nil
}

// lookupErr names the missing entity or wraps a store failure as internal.
func lookupErr(entity string, err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("%s %w", entity, errs.ErrNotFound)
	}
	return internal("load "+entity, err)
}
