package services

import (
	"context"
	"errors"
	"fmt"

	"go-shop/errs"
	"go-shop/models"
	"go-shop/repository"
	"go-shop/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxItemQuantity bounds a single cart line.
const MaxItemQuantity = 999

// CartItemInput adds a product to the cart.
type CartItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty" validate:"gte=1,lte=999"`
}

// QuantityInput sets the quantity of a cart line.
type QuantityInput struct {
	Qty int `json:"qty" validate:"gte=1,lte=999"`
}

// CartService manages one shopping cart per user.
type CartService struct {
	carts repository.CartRepository
}

func NewCartService(carts repository.CartRepository) *CartService {
	return &CartService{carts: carts}
}

// Get returns the user's cart, creating an empty one on first access.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	uid, err := userObjectID(userID)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.FindByUser(ctx, uid)
	if errors.Is(err, errs.ErrNotFound) {
		c = &models.Cart{UserID: uid, Items: []models.CartItem{}}
		if err := s.carts.Save(ctx, c); err != nil {
			return nil, internal("create cart", err)
		}
		return c, nil
	}
	if err != nil {
		return nil, internal("load cart", err)
	}
	return c, nil
}

// AddItem adds qty of a product, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, userID string, in CartItemInput) (*models.Cart, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	pid, err := productObjectID("productId", in.ProductID)
	if err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := indexOf(c.Items, pid); i >= 0 {
		if c.Items[i].Quantity+in.Qty > MaxItemQuantity {
			return nil, errs.Invalid("qty", fmt.Sprintf("qty must be at most %d", MaxItemQuantity))
		}
		c.Items[i].Quantity += in.Qty
	} else {
		c.Items = append(c.Items, models.CartItem{ProductID: pid, Quantity: in.Qty})
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, internal("save cart", err)
	}
	return c, nil
}

// UpdateItem sets the quantity of an existing line.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, in QuantityInput) (*models.Cart, error) {
	pid, err := productObjectID("productId", productID)
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexOf(c.Items, pid)
	if i < 0 {
		return nil, fmt.Errorf("cart item %w", errs.ErrNotFound)
	}
	c.Items[i].Quantity = in.Qty

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, internal("save cart", err)
	}
	return c, nil
}

// RemoveItem drops a product from the cart. Removing an absent product is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	pid, err := productObjectID("productId", productID)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != pid {
			kept = append(kept, it)
		}
	}
	c.Items = kept

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, internal("save cart", err)
	}
	return c, nil
}

// Delete removes the whole cart.
func (s *CartService) Delete(ctx context.Context, userID string) error {
	uid, err := userObjectID(userID)
	if err != nil {
		return err
	}
	if err := s.carts.DeleteByUser(ctx, uid); err != nil {
		return lookupErr("cart", err)
	}
	return nil
}

func (s *CartService) load(ctx context.Context, userID string) (*models.Cart, error) {
	uid, err := userObjectID(userID)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.FindByUser(ctx, uid)
	if err != nil {
		return nil, lookupErr("cart", err)
	}
	return c, nil
}

func indexOf(items []models.CartItem, pid primitive.ObjectID) int {
	for i, it := range items {
		if it.ProductID == pid {
			return i
		}
	}
	return -1
}

func productObjectID(field, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.Invalid(field, "Invalid product id format")
	}
	return oid, nil
}
