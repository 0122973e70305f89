// Package store implements the token revocation store: a key-value blacklist
// with per-key expiry, backed by Redis or by process memory.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-shop/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix prefixes every blacklisted token key.
const KeyPrefix = "blacklist_"

// ErrUnavailable reports a revocation store that cannot be reached.
var ErrUnavailable = errors.New("revocation store unavailable")

// RevocationStore records revoked tokens until their natural expiry.
type RevocationStore interface {
	// Revoke blacklists token for ttl. Revoking twice is not an error.
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	// IsRevoked reports whether token is currently blacklisted.
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Close releases the underlying connection.
	Close() error
}

// Key is the store key for token.
func Key(token string) string { return KeyPrefix + token }

// Open builds the revocation store selected by cfg. When Redis is selected but
// unreachable and cfg.Fallback is set, a MemoryStore is returned instead.
func Open(ctx context.Context, cfg config.RevocationConfig, log *zap.Logger) (RevocationStore, error) {
	if cfg.Store == config.RevocationMemory {
		log.Warn("using in-memory revocation store; logouts do not survive a restart")
		return NewMemoryStore(), nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		if !cfg.Fallback {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		log.Warn("redis unreachable, falling back to in-memory revocation store",
			zap.String("addr", opts.Addr),
			zap.Error(err),
		)
		return NewMemoryStore(), nil
	}

	log.Info("connected to redis revocation store", zap.String("addr", opts.Addr))
	return NewRedisStore(rdb), nil
}

func redisOptions(cfg config.RevocationConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
