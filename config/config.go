// Package config loads service configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Environments recognized by APP_ENV.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"
)

// Service names accepted by SERVICES.
const (
	ServiceAuth    = "auth"
	ServiceCart    = "cart"
	ServiceProduct = "product"
)

// Revocation store strategies accepted by REVOCATION_STORE.
const (
	RevocationRedis  = "redis"
	RevocationMemory = "memory"
)

// Config is the full process configuration.
type Config struct {
	Server     ServerConfig
	Mongo      MongoConfig
	JWT        JWTConfig
	Auth       AuthConfig
	Revocation RevocationConfig
	Mail       MailConfig
	Images     ImageConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	Env             string
	Services        []string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// MongoConfig holds the document database connection.
type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// AuthConfig holds password hashing settings.
type AuthConfig struct {
	BcryptCost int
}

// RevocationConfig selects and configures the token blacklist store.
type RevocationConfig struct {
	Store         string
	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Fallback      bool
}

// MailConfig holds SendGrid settings. An empty APIKey disables mail.
type MailConfig struct {
	APIKey string
	Sender string
}

// ImageConfig selects the image store. ImageKit is used when its three
// settings are present, local disk otherwise.
type ImageConfig struct {
	UploadDir     string
	PublicBaseURL string

	ImageKitPublicKey   string
	ImageKitPrivateKey  string
	ImageKitURLEndpoint string
}

// ImageKitEnabled reports whether ImageKit credentials are configured.
func (c *ImageConfig) ImageKitEnabled() bool {
	return c.ImageKitPublicKey != "" && c.ImageKitPrivateKey != "" && c.ImageKitURLEndpoint != ""
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	env := strings.ToLower(get("APP_ENV", EnvProduction))

	secret := get("JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	mongoURI := get("MONGO_URI", "")
	if mongoURI == "" {
		return nil, errors.New("MONGO_URI environment variable is required")
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %q", get("TOKEN_TTL", ""))
	}
	shutdown, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cookieSecure, err := strconv.ParseBool(get("COOKIE_SECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}
	cost, err := strconv.Atoi(get("BCRYPT_COST", "13"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	redisDB, err := strconv.Atoi(get("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	fallback, err := strconv.ParseBool(get("REVOCATION_FALLBACK", strconv.FormatBool(env != EnvProduction)))
	if err != nil {
		return nil, fmt.Errorf("invalid REVOCATION_FALLBACK: %w", err)
	}

	revStore := strings.ToLower(get("REVOCATION_STORE", RevocationRedis))
	if revStore != RevocationRedis && revStore != RevocationMemory {
		return nil, fmt.Errorf("invalid REVOCATION_STORE: %q", revStore)
	}

	images := ImageConfig{
		UploadDir:           get("UPLOAD_DIR", "uploads"),
		PublicBaseURL:       strings.TrimRight(get("PUBLIC_BASE_URL", ""), "/"),
		ImageKitPublicKey:   get("IMAGEKIT_PUBLIC_KEY", ""),
		ImageKitPrivateKey:  get("IMAGEKIT_PRIVATE_KEY", ""),
		ImageKitURLEndpoint: get("IMAGEKIT_URL_ENDPOINT", ""),
	}
	if !images.ImageKitEnabled() && (images.ImageKitPublicKey != "" || images.ImageKitPrivateKey != "" || images.ImageKitURLEndpoint != "") {
		return nil, errors.New("IMAGEKIT_PUBLIC_KEY, IMAGEKIT_PRIVATE_KEY and IMAGEKIT_URL_ENDPOINT must be set together")
	}

	services, err := parseServices(get("SERVICES", strings.Join([]string{ServiceAuth, ServiceCart, ServiceProduct}, ",")))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:            get("PORT", "8000"),
			Env:             env,
			Services:        services,
			CORSOrigins:     splitList(get("CORS_ORIGINS", "")),
			ShutdownTimeout: shutdown,
		},
		Mongo: MongoConfig{
			URI:      mongoURI,
			Database: get("MONGO_DB", "ecommerce"),
		},
		JWT: JWTConfig{
			Secret:       secret,
			TTL:          ttl,
			CookieSecure: cookieSecure,
		},
		Auth: AuthConfig{BcryptCost: cost},
		Revocation: RevocationConfig{
			Store:         revStore,
			RedisURL:      get("REDIS_URL", ""),
			RedisAddr:     get("REDIS_ADDR", "localhost:6379"),
			RedisPassword: get("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			Fallback:      fallback,
		},
		Mail: MailConfig{
			APIKey: get("SENDGRID_API_KEY", ""),
			Sender: get("EMAIL_SENDER", "no-reply@example.com"),
		},
		Images: images,
	}, nil
}

// Enabled reports whether the named service is mounted.
func (c *ServerConfig) Enabled(service string) bool {
	for _, s := range c.Services {
		if s == service {
			return true
		}
	}
	return false
}

// Addr is the listen address.
func (c *ServerConfig) Addr() string {
	return ":" + c.Port
}

func parseServices(raw string) ([]string, error) {
	var out []string
	for _, s := range splitList(strings.ToLower(raw)) {
		switch s {
		case ServiceAuth, ServiceCart, ServiceProduct:
			out = append(out, s)
		default:
			return nil, fmt.Errorf("invalid SERVICES entry: %q", s)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("SERVICES must name at least one service")
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
