package controllers

import (
	"context"
	"net/http"
	"time"

	"go-shop/middleware"
	"go-shop/models"
	"go-shop/services"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

// UserController handles authentication and address requests
type UserController struct {
	auth         *services.AuthService
	users        *services.UserService
	cookieSecure bool
	log          *zap.Logger
}

// NewUserController creates a new UserController
func NewUserController(auth *services.AuthService, users *services.UserService, cookieSecure bool, log *zap.Logger) *UserController {
	return &UserController{auth: auth, users: users, cookieSecure: cookieSecure, log: log}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.Error(w, uc.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	sess, err := uc.auth.Register(ctx, in)
	if err != nil {
		utils.Error(w, uc.log, err)
		return
	}

	uc.setTokenCookie(w, sess.Token)
	utils.JSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    sess.User,
	})
}

// Login handles user login
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.Error(w, uc.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	sess, err := uc.auth.Login(ctx, in)
	if err != nil {
		utils.Error(w, uc.log, err)
		return
	}

	uc.setTokenCookie(w, sess.Token)
	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    sess.User,
	})
}

// Me returns the identity carried by the session token.
func (uc *UserController) Me(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Current user fetched successfully",
		"user":    id,
	})
}

// Logout revokes the presented token and clears the cookie. It always
// answers 200; a failed revocation is logged.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := uc.auth.Logout(ctx, middleware.TokenFromRequest(r)); err != nil {
		uc.log.Error("logout: token not revoked", zap.Error(err))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   uc.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	utils.Message(w, http.StatusOK, "Logout successful")
}

// ListAddresses returns the caller's saved addresses.
func (uc *UserController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	addrs, err := uc.users.ListAddresses(ctx, identity(r).ID)
	if err != nil {
		utils.Error(w, uc.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"message":   "User addresses fetched successfully",
		"addresses": addrs,
	})
}

// AddAddress appends an address to the caller's list.
func (uc *UserController) AddAddress(w http.ResponseWriter, r *http.Request) {
	var in services.AddressInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.Error(w, uc.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	addrs, err := uc.users.AddAddress(ctx, identity(r).ID, in)
	if err != nil {
		utils.Error(w, uc.log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]any{
		"message":   "Address added successfully",
		"addresses": addrs,
	})
}

// DeleteAddress removes one of the caller's addresses.
func (uc *UserController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	addrs, err := uc.users.DeleteAddress(ctx, identity(r).ID, mux.Vars(r)["addressId"])
	if err != nil {
		utils.Error(w, uc.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"message":   "Address deleted successfully",
		"addresses": addrs,
	})
}

func (uc *UserController) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(uc.auth.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   uc.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// identity returns the caller set by the authorizer. Handlers using it are
// always registered behind a policy rule.
func identity(r *http.Request) *models.Identity {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return &models.Identity{}
	}
	return id
}
