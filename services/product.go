package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go-shop/errs"
	"go-shop/models"
	"go-shop/repository"
	"go-shop/utils"

	"go.uber.org/zap"
)

// Listing bounds.
const (
	MaxProductImages   = 5
	DefaultListLimit   = 20
	MinListLimit       = 5
	MaxListLimit       = 100
	MaxSellerListLimit = 20
)

// ProductInput is a new catalog entry.
type ProductInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"omitempty,oneof=USD INR"`
}

// ImageUpload is one uploaded file.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// PricePatch updates part of a price.
type PricePatch struct {
	Amount   *float64 `json:"amount"`
	Currency *string  `json:"currency"`
}

// ProductPatch carries the editable product fields. Nil fields are left unchanged.
type ProductPatch struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Price       *PricePatch `json:"price"`
}

// ListQuery filters the public catalog.
type ListQuery struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Skip     int64
	Limit    int64
}

// ProductService manages the catalog.
type ProductService struct {
	products repository.ProductRepository
	images   utils.ImageStore
	log      *zap.Logger
}

func NewProductService(products repository.ProductRepository, images utils.ImageStore, log *zap.Logger) *ProductService {
	return &ProductService{products: products, images: images, log: log}
}

// Create stores the images and inserts a product owned by sellerID.
func (s *ProductService) Create(ctx context.Context, sellerID string, in ProductInput, uploads []ImageUpload) (*models.Product, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	if len(uploads) > MaxProductImages {
		return nil, errs.Invalid("images", fmt.Sprintf("maximum %d images allowed", MaxProductImages))
	}
	seller, err := userObjectID(sellerID)
	if err != nil {
		return nil, err
	}
	if in.Currency == "" {
		in.Currency = models.CurrencyINR
	}

	images := make([]models.Image, 0, len(uploads))
	for _, up := range uploads {
		img, err := s.images.Save(ctx, up.Filename, up.Body)
		if err != nil {
			return nil, internal("store image", err)
		}
		images = append(images, img)
	}

	p := &models.Product{
		Title:       in.Title,
		Description: in.Description,
		Price:       models.Price{Amount: in.Price, Currency: in.Currency},
		Seller:      seller,
		Images:      images,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, internal("create product", err)
	}
	s.log.Info("product created", zap.String("product_id", p.ID.Hex()), zap.Int("images", len(images)))
	return p, nil
}

// List returns public catalog entries. Limit is clamped to [MinListLimit, MaxListLimit].
func (s *ProductService) List(ctx context.Context, q ListQuery) ([]models.Product, error) {
	limit := q.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	limit = max(MinListLimit, min(limit, MaxListLimit))

	list, err := s.products.Find(ctx, repository.ProductFilter{
		Query:    strings.TrimSpace(q.Query),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Skip:     max(q.Skip, 0),
		Limit:    limit,
	})
	if err != nil {
		return nil, internal("list products", err)
	}
	return list, nil
}

// ListBySeller returns the seller's own products, at most MaxSellerListLimit per page.
func (s *ProductService) ListBySeller(ctx context.Context, sellerID string, skip, limit int64) ([]models.Product, error) {
	seller, err := userObjectID(sellerID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxSellerListLimit {
		limit = MaxSellerListLimit
	}
	list, err := s.products.Find(ctx, repository.ProductFilter{
		Seller: seller,
		Skip:   max(skip, 0),
		Limit:  limit,
	})
	if err != nil {
		return nil, internal("list seller products", err)
	}
	return list, nil
}

// Get loads one product.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := productObjectID("id", id)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, lookupErr("product", err)
	}
	return p, nil
}

// Update applies patch to a product owned by sellerID. Products of other
// sellers are reported as not found.
func (s *ProductService) Update(ctx context.Context, sellerID, id string, patch ProductPatch) (*models.Product, error) {
	oid, err := productObjectID("id", id)
	if err != nil {
		return nil, err
	}
	seller, err := userObjectID(sellerID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, lookupErr("product", err)
	}
	if p.Seller != seller {
		return nil, fmt.Errorf("product %w", errs.ErrNotFound)
	}

	in := ProductInput{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.Amount,
		Currency:    p.Price.Currency,
	}
	if patch.Title != nil {
		in.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Price != nil {
		if patch.Price.Amount != nil {
			in.Price = *patch.Price.Amount
		}
		if patch.Price.Currency != nil {
			in.Currency = *patch.Price.Currency
		}
	}
	if err := utils.Validate(in); err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Price = models.Price{Amount: in.Price, Currency: in.Currency}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, lookupErr("product", err)
	}
	return p, nil
}

// Delete removes a product owned by sellerID.
func (s *ProductService) Delete(ctx context.Context, sellerID, id string) error {
	oid, err := productObjectID("id", id)
	if err != nil {
		return err
	}
	seller, err := userObjectID(sellerID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, oid, seller); err != nil {
		return lookupErr("product", err)
	}
	return nil
}
