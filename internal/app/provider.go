package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/platform/router"
	"github.com/ferdiebergado/tokenkit/internal/platform/validation"
	"github.com/ferdiebergado/tokenkit/internal/refresh"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	redisPingTimeout = 5 * time.Second
)

var ErrUnknownStore = errors.New("unknown refresh token store")

type Provider struct {
	DB        *sql.DB
	Redis     *redis.Client
	Signer    token.Signer
	Validator validation.Validator
	Hasher    security.Hasher
	Digester  security.ShortHasher
	Router    router.Router
	CSRFBaker web.Baker
	TxMgr     db.TxManager
	Store     refresh.Store
}

// Close releases the connections owned by the provider other than the database.
func (p *Provider) Close() error {
	if p.Redis == nil {
		return nil
	}
	if err := p.Redis.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}

func newProvider(ctx context.Context, cfg *config.Config, securityKey string, dbConn *sql.DB) (*Provider, error) {
	codec, err := newCodec(cfg.JWT, securityKey)
	if err != nil {
		return nil, err
	}

	provider := &Provider{
		DB:        dbConn,
		Signer:    codec,
		Hasher:    security.NewArgon2Hasher(cfg.Argon2, securityKey),
		Digester:  security.NewSHA256Hasher(securityKey),
		Router:    router.NewGoexpressRouter(),
		Validator: validation.NewGoPlaygroundValidator(),
		CSRFBaker: security.NewCSRFCookieBaker(cfg.CSRF, securityKey),
		TxMgr:     db.NewSQLTxManager(dbConn),
	}

	if err := provider.setupStore(ctx, cfg); err != nil {
		return nil, err
	}

	return provider, nil
}

func newCodec(cfg *config.JWT, securityKey string) (*token.Codec, error) {
	if cfg == nil {
		cfg = &config.JWT{}
	}
	codec, err := token.New(token.Config{
		Secret:     []byte(securityKey),
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL.Duration,
		RefreshTTL: cfg.RefreshTTL.Duration,
		ClockSkew:  cfg.ClockSkew.Duration,
		IssuedAt:   cfg.IssuedAt,
		TokenID:    cfg.TokenID,
	})
	if err != nil {
		return nil, fmt.Errorf("new token codec: %w", err)
	}
	return codec, nil
}

func (p *Provider) setupStore(ctx context.Context, cfg *config.Config) error {
	backend := StoreMemory
	if cfg.Refresh != nil && cfg.Refresh.Store != "" {
		backend = cfg.Refresh.Store
	}

	switch backend {
	case StoreMemory:
		p.Store = refresh.NewMemoryStore()
	case StorePostgres:
		if p.DB == nil {
			return fmt.Errorf("postgres refresh store: %w", db.ErrMissingURL)
		}
		p.Store = refresh.NewPostgresStore(p.DB)
	case StoreRedis:
		client, err := newRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		p.Redis = client

		var opts []refresh.Option
		if cfg.Redis != nil && cfg.Redis.KeyPrefix != "" {
			opts = append(opts, refresh.WithKeyPrefix(cfg.Redis.KeyPrefix))
		}
		p.Store = refresh.NewRedisStore(client, opts...)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, backend)
	}

	slog.Info("Refresh token store ready.", "store", backend)
	return nil
}

func newRedisClient(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	if cfg == nil {
		cfg = &config.Redis{}
	}

	slog.Info("Connecting to redis...", slog.Any("redis", cfg))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     10,
		MinIdleConns: 5,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	slog.Info("Connected to redis.")
	return client, nil
}
