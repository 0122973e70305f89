package mongodb

import (
	"context"
	"errors"

	"go-shop/errs"
	"go-shop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepo implements repository.CartRepository.
type CartRepo struct {
	coll *mongo.Collection
}

// NewCartRepo uses the "carts" collection of db.
func NewCartRepo(db *mongo.Database) *CartRepo {
	return &CartRepo{coll: db.Collection("carts")}
}

// FindByUser loads the user's cart.
func (r *CartRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var c models.Cart
	err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Save upserts c by its user and fills c.ID for new carts.
func (r *CartRepo) Save(ctx context.Context, c *models.Cart) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user": c.UserID},
		bson.M{
			"$set":         bson.M{"items": c.Items},
			"$setOnInsert": bson.M{"_id": c.ID},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// DeleteByUser removes the user's cart.
func (r *CartRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
