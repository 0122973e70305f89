// Package services holds the business operations behind the HTTP handlers:
// authentication, addresses, carts and the product catalog.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-shop/errs"
	"go-shop/models"
	"go-shop/repository"
	"go-shop/store"
	"go-shop/utils"

	"go.uber.org/zap"
)

const mailTimeout = 10 * time.Second

// RegisterInput is the registration request.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName struct {
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
	} `json:"fullName"`
	Role models.Role `json:"role" validate:"omitempty,oneof=user seller"`
}

// LoginInput identifies the account by username or email.
type LoginInput struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Session is an issued token together with the user it was issued for.
type Session struct {
	User      *models.PublicUser
	Token     string
	ExpiresAt time.Time
}

// AuthService issues, verifies and revokes session tokens.
type AuthService struct {
	users   repository.UserRepository
	tokens  *utils.TokenManager
	revoked store.RevocationStore
	hasher  *utils.PasswordHasher
	mailer  utils.Mailer
	log     *zap.Logger
}

// NewAuthService wires the auth core. mailer may be nil.
func NewAuthService(
	users repository.UserRepository,
	tokens *utils.TokenManager,
	revoked store.RevocationStore,
	hasher *utils.PasswordHasher,
	mailer utils.Mailer,
	log *zap.Logger,
) *AuthService {
	if mailer == nil {
		mailer = utils.NoopMailer{}
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		revoked: revoked,
		hasher:  hasher,
		mailer:  mailer,
		log:     log,
	}
}

// TokenTTL is the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration { return s.tokens.TTL() }

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	_, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("username or email %w", errs.ErrConflict)
	case !errors.Is(err, errs.ErrNotFound):
		return nil, internal("lookup user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if errors.Is(err, errs.ErrValidation) {
		return nil, err
	}
	if err != nil {
		return nil, internal("hash password", err)
	}

	u := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		FullName: models.FullName{FirstName: in.FullName.FirstName, LastName: in.FullName.LastName},
		Role:     in.Role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, fmt.Errorf("username or email %w", errs.ErrConflict)
		}
		return nil, internal("create user", err)
	}

	sess, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", sess.User.ID), zap.String("role", string(u.Role)))

	go s.sendWelcome(u.Email, u.FullName.FirstName)
	return sess, nil
}

// Login verifies credentials and issues a token. An unknown account yields
// errs.ErrNotFound, a wrong password errs.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := utils.Validate(in); err != nil {
		return nil, err
	}

	u, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if errors.Is(err, errs.ErrNotFound) {
		s.hasher.CompareDummy(in.Password)
		return nil, fmt.Errorf("user %w", errs.ErrNotFound)
	}
	if err != nil {
		return nil, internal("lookup user", err)
	}

	ok, err := s.hasher.Compare(u.Password, in.Password)
	if err != nil {
		s.log.Warn("stored password hash is unreadable", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}
	if !ok {
		return nil, errs.ErrInvalidCredentials
	}
	return s.issue(u)
}

// Authenticate verifies token and returns the identity it carries. Missing,
// malformed, expired and revoked tokens all yield errs.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, errs.ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, token)
	if err != nil {
		return nil, internal("check revocation", err)
	}
	if revoked {
		return nil, errs.ErrUnauthenticated
	}
	id := claims.Identity()
	return &id, nil
}

// Logout blacklists token for the rest of its lifetime. Absent, malformed and
// already expired tokens need no revocation and return nil.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	ttl := s.tokens.Remaining(claims)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, token, ttl); err != nil {
		return internal("revoke token", err)
	}
	s.log.Info("token revoked", zap.String("user_id", claims.ID), zap.Duration("ttl", ttl))
	return nil
}

// Authorize checks id against the allowed roles. An empty set admits every
// authenticated identity.
func Authorize(id *models.Identity, allowed []models.Role) error {
	if id == nil {
		return errs.ErrUnauthenticated
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, r := range allowed {
		if id.Role == r {
			return nil
		}
	}
	return errs.ErrForbidden
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	token, exp, err := s.tokens.Issue(u.Identity())
	if err != nil {
		return nil, internal("issue token", err)
	}
	return &Session{User: u.Public(), Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) sendWelcome(to, firstName string) {
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()
	subject, body := utils.WelcomeEmail(firstName)
	if err := s.mailer.SendEmail(ctx, to, subject, body); err != nil {
		s.log.Warn("welcome email failed", zap.Error(err))
	}
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrInternal, op, err)
}
