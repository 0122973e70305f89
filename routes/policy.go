package routes

import (
	"go-shop/middleware"
	"go-shop/models"
)

// Route names. The Authorizer looks these up in Policy.
const (
	AuthRegister      = "auth.register"
	AuthLogin         = "auth.login"
	AuthMe            = "auth.me"
	AuthLogout        = "auth.logout"
	AddressList       = "auth.addresses.list"
	AddressAdd        = "auth.addresses.add"
	AddressDelete     = "auth.addresses.delete"
	CartGet           = "cart.get"
	CartAddItem       = "cart.items.add"
	CartUpdateItem    = "cart.items.update"
	CartRemoveItem    = "cart.items.remove"
	CartDelete        = "cart.delete"
	ProductCreate     = "products.create"
	ProductList       = "products.list"
	ProductListSeller = "products.seller"
	ProductGet        = "products.get"
	ProductUpdate     = "products.update"
	ProductDelete     = "products.delete"
	Uploads           = "uploads"
	Health            = "healthz"
)

var (
	anyRole     = middleware.Rule{}
	userOnly    = middleware.Rule{Roles: []models.Role{models.RoleUser}}
	sellerOnly  = middleware.Rule{Roles: []models.Role{models.RoleSeller}}
	catalogEdit = middleware.Rule{Roles: []models.Role{models.RoleAdmin, models.RoleSeller}}
)

// Policy lists every protected route. Anything not listed is public.
func Policy() middleware.Policy {
	return middleware.Policy{
		AuthMe:        anyRole,
		AddressList:   anyRole,
		AddressAdd:    anyRole,
		AddressDelete: anyRole,

		CartGet:        userOnly,
		CartAddItem:    userOnly,
		CartUpdateItem: userOnly,
		CartRemoveItem: userOnly,
		CartDelete:     userOnly,

		ProductCreate:     catalogEdit,
		ProductListSeller: sellerOnly,
		ProductUpdate:     sellerOnly,
		ProductDelete:     sellerOnly,
	}
}
