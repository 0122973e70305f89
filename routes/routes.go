// routes/routes.go
package routes

import (
	"net/http"

	"go-shop/controllers"
	"go-shop/middleware"

	"github.com/gorilla/mux"
)

// Controllers groups the handlers to mount. A nil controller leaves its
// service unmounted.
type Controllers struct {
	User    *controllers.UserController
	Cart    *controllers.CartController
	Product *controllers.ProductController

	// UploadDir is served under /uploads/ when Product is mounted.
	UploadDir string
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, authz *middleware.Authorizer) {
	router.Use(authz.Middleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet).Name(Health)

	if uc := c.User; uc != nil {
		auth := router.PathPrefix("/api/auth").Subrouter()
		auth.HandleFunc("/register", uc.Register).Methods(http.MethodPost).Name(AuthRegister)
		auth.HandleFunc("/login", uc.Login).Methods(http.MethodPost).Name(AuthLogin)
		auth.HandleFunc("/me", uc.Me).Methods(http.MethodGet).Name(AuthMe)
		auth.HandleFunc("/logout", uc.Logout).Methods(http.MethodGet, http.MethodPost).Name(AuthLogout)
		auth.HandleFunc("/users/me/addresses", uc.ListAddresses).Methods(http.MethodGet).Name(AddressList)
		auth.HandleFunc("/users/me/addresses", uc.AddAddress).Methods(http.MethodPost).Name(AddressAdd)
		auth.HandleFunc("/users/me/addresses/{addressId}", uc.DeleteAddress).Methods(http.MethodDelete).Name(AddressDelete)
	}

	if cc := c.Cart; cc != nil {
		cart := router.PathPrefix("/api/cart").Subrouter()
		cart.HandleFunc("", cc.GetCart).Methods(http.MethodGet).Name(CartGet)
		cart.HandleFunc("", cc.DeleteCart).Methods(http.MethodDelete).Name(CartDelete)
		cart.HandleFunc("/items", cc.AddToCart).Methods(http.MethodPost).Name(CartAddItem)
		cart.HandleFunc("/items/{productId}", cc.UpdateItem).Methods(http.MethodPatch).Name(CartUpdateItem)
		cart.HandleFunc("/items/{productId}", cc.RemoveItem).Methods(http.MethodDelete).Name(CartRemoveItem)
	}

	if pc := c.Product; pc != nil {
		products := router.PathPrefix("/api/products").Subrouter()
		products.HandleFunc("", pc.CreateProduct).Methods(http.MethodPost).Name(ProductCreate)
		products.HandleFunc("", pc.GetProducts).Methods(http.MethodGet).Name(ProductList)
		products.HandleFunc("/seller", pc.GetSellerProducts).Methods(http.MethodGet).Name(ProductListSeller)
		products.HandleFunc("/{id}", pc.GetProductByID).Methods(http.MethodGet).Name(ProductGet)
		products.HandleFunc("/{id}", pc.UpdateProduct).Methods(http.MethodPatch).Name(ProductUpdate)
		products.HandleFunc("/{id}", pc.DeleteProduct).Methods(http.MethodDelete).Name(ProductDelete)

		if c.UploadDir != "" {
			router.PathPrefix("/uploads/").
				Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(c.UploadDir)))).
				Methods(http.MethodGet).
				Name(Uploads)
		}
	}
}
