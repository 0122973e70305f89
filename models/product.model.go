package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Currencies accepted for product prices.
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// Price is an amount in a currency.
type Price struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
}

// Image is a stored product image.
type Image struct {
	ID        string `bson:"id" json:"id"`
	URL       string `bson:"url" json:"url"`
	Thumbnail string `bson:"thumbnail" json:"thumbnail"`
}

// Product is a catalog entry owned by a seller.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       Price              `bson:"price" json:"price"`
	Seller      primitive.ObjectID `bson:"seller" json:"seller"`
	Images      []Image            `bson:"images" json:"images"`
}
