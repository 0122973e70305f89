package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-shop/errs"
	"go-shop/models"
	"go-shop/services"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TokenCookie is the name of the session cookie.
const TokenCookie = "token"

// Key type for context
type contextKey string

const identityKey = contextKey("identity")

// Authenticator verifies a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// Rule protects a route. An empty Roles list admits any authenticated identity.
type Rule struct {
	Roles []models.Role
}

// Policy maps mux route names to their rule. Unlisted routes are public.
type Policy map[string]Rule

// Authorizer enforces a Policy on every matched route.
type Authorizer struct {
	auth   Authenticator
	policy Policy
	log    *zap.Logger
}

func NewAuthorizer(auth Authenticator, policy Policy, log *zap.Logger) *Authorizer {
	return &Authorizer{auth: auth, policy: policy, log: log}
}

// Middleware verifies the request token when the matched route is listed in
// the policy and attaches the identity to the request context.
func (a *Authorizer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r)
		if route == nil {
			next.ServeHTTP(w, r)
			return
		}
		rule, protected := a.policy[route.GetName()]
		if !protected {
			next.ServeHTTP(w, r)
			return
		}

		token := TokenFromRequest(r)
		if token == "" {
			utils.Message(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}

		id, err := a.auth.Authenticate(r.Context(), token)
		switch {
		case errors.Is(err, errs.ErrUnauthenticated):
			utils.Message(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		case err != nil:
			utils.Error(w, a.log, err)
			return
		}

		if err := services.Authorize(id, rule.Roles); err != nil {
			a.log.Debug("role rejected",
				zap.String("route", route.GetName()),
				zap.String("role", string(id.Role)),
			)
			utils.Message(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// TokenFromRequest reads the session cookie, falling back to a bearer token.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity attached by Authorizer.
func IdentityFrom(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*models.Identity)
	return id, ok && id != nil
}
