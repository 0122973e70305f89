package controllers

import (
	"context"
	"net/http"

	"go-shop/models"
	"go-shop/services"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// CartController handles cart-related requests
type CartController struct {
	carts *services.CartService
	log   *zap.Logger
}

// NewCartController creates a new CartController
func NewCartController(carts *services.CartService, log *zap.Logger) *CartController {
	return &CartController{carts: carts, log: log}
}

// GetCart returns the caller's cart with totals, creating it if needed.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := cc.carts.Get(ctx, identity(r).ID)
	if err != nil {
		utils.Error(w, cc.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"cart":   cart,
		"totals": cart.Totals(),
	})
}

// AddToCart adds a product to the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var in services.CartItemInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.Error(w, cc.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := cc.carts.AddItem(ctx, identity(r).ID, in)
	cc.respond(w, cart, err, "Item added to cart")
}

// UpdateItem sets the quantity of a cart line.
func (cc *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var in services.QuantityInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.Error(w, cc.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := cc.carts.UpdateItem(ctx, identity(r).ID, mux.Vars(r)["productId"], in)
	cc.respond(w, cart, err, "Item quantity updated")
}

// RemoveItem drops a product from the cart.
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := cc.carts.RemoveItem(ctx, identity(r).ID, mux.Vars(r)["productId"])
	cc.respond(w, cart, err, "Item removed from cart")
}

// DeleteCart removes the whole cart.
func (cc *CartController) DeleteCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := cc.carts.Delete(ctx, identity(r).ID); err != nil {
		utils.Error(w, cc.log, err)
		return
	}
	utils.Message(w, http.StatusOK, "Cart deleted successfully")
}

func (cc *CartController) respond(w http.ResponseWriter, cart *models.Cart, err error, msg string) {
	if err != nil {
		utils.Error(w, cc.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"message": msg, "cart": cart})
}
