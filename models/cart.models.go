package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents an item in the cart
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart represents a user's shopping cart
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// CartTotals summarizes a cart's contents.
type CartTotals struct {
	ItemCount     int `json:"itemCount"`
	TotalQuantity int `json:"totalQuantity"`
}

// Totals counts distinct items and the summed quantity.
func (c *Cart) Totals() CartTotals {
	t := CartTotals{ItemCount: len(c.Items)}
	for _, it := range c.Items {
		t.TotalQuantity += it.Quantity
	}
	return t
}
