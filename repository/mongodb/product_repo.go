package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go-shop/errs"
	"go-shop/models"
	"go-shop/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepo implements repository.ProductRepository.
type ProductRepo struct {
	coll *mongo.Collection
}

// NewProductRepo uses the "products" collection of db.
func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{coll: db.Collection("products")}
}

// EnsureIndexes creates the text index used by catalog search.
func (r *ProductRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}

// Create inserts p and assigns its ID.
func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

// FindByID loads a product.
func (r *ProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Find lists products matching f.
func (r *ProductRepo) Find(ctx context.Context, f repository.ProductFilter) ([]models.Product, error) {
	filter := bson.M{}
	if f.Query != "" {
		filter["$text"] = bson.M{"$search": f.Query}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price.amount"] = price
	}
	if !f.Seller.IsZero() {
		filter["seller"] = f.Seller
	}

	opts := options.Find().SetSkip(f.Skip)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update replaces the editable fields of a product owned by p.Seller.
func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": p.ID, "seller": p.Seller},
		bson.M{"$set": bson.M{
			"title":       p.Title,
			"description": p.Description,
			"price":       p.Price,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a product owned by seller.
func (r *ProductRepo) Delete(ctx context.Context, id, seller primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "seller": seller})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
