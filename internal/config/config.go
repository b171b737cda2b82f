// Package config loads the service configuration from a JSON file with
// environment variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ferdiebergado/tokenkit/internal/pkg/env"
	timex "github.com/ferdiebergado/tokenkit/internal/pkg/time"
)

type App struct {
	Env      string `json:"env,omitempty" env:"ENV"`
	LogLevel string `json:"log_level,omitempty" env:"LOG_LEVEL"`
}

type Server struct {
	URL             string         `json:"url,omitempty" env:"URL"`
	Port            int            `json:"port,omitempty" env:"PORT"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64          `json:"max_body_bytes,omitempty"`
	AllowedOrigin   string         `json:"allowed_origin,omitempty" env:"ALLOWED_ORIGIN"`
}

type DB struct {
	Driver          string         `json:"driver,omitempty"`
	URL             string         `json:"-" env:"DATABASE_URL"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

func (d *DB) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("driver", d.Driver),
		slog.Int("max_open_conns", d.MaxOpenConns),
		slog.Int("max_idle_conns", d.MaxIdleConns),
		slog.Duration("conn_max_idle_time", d.ConnMaxIdleTime.Duration),
		slog.Duration("conn_max_lifetime", d.ConnMaxLifetime.Duration),
		slog.Duration("ping_timeout", d.PingTimeout.Duration),
	)
}

type JWT struct {
	Issuer     string         `json:"issuer,omitempty" env:"JWT_ISSUER"`
	Audience   string         `json:"audience,omitempty" env:"JWT_AUDIENCE"`
	AccessTTL  timex.Duration `json:"access_ttl,omitempty"`
	RefreshTTL timex.Duration `json:"refresh_ttl,omitempty"`
	ClockSkew  timex.Duration `json:"clock_skew,omitempty"`
	IssuedAt   bool           `json:"issued_at,omitempty" env:"JWT_ISSUED_AT"`
	TokenID    bool           `json:"token_id,omitempty" env:"JWT_TOKEN_ID"`
}

type Cookie struct {
	AccessName  string `json:"access_name,omitempty"`
	RefreshName string `json:"refresh_name,omitempty"`
}

type CSRF struct {
	CookieName   string         `json:"cookie_name,omitempty"`
	HeaderName   string         `json:"header_name,omitempty"`
	TokenLength  uint32         `json:"token_length,omitempty"`
	CookieMaxAge timex.Duration `json:"cookie_max_age,omitempty"`
}

type Argon2 struct {
	Memory     uint32 `json:"memory,omitempty" env:"ARGON2_MEMORY"`
	Iterations uint32 `json:"iterations,omitempty" env:"ARGON2_ITERATIONS"`
	Threads    uint8  `json:"threads,omitempty" env:"ARGON2_THREADS"`
	SaltLength uint32 `json:"salt_length,omitempty"`
	KeyLength  uint32 `json:"key_length,omitempty"`
}

// Refresh selects the refresh token store backend: "memory", "postgres" or "redis".
type Refresh struct {
	Store           string         `json:"store,omitempty" env:"REFRESH_STORE"`
	CleanupInterval timex.Duration `json:"cleanup_interval,omitempty"`
	MaxAttempts     int            `json:"max_attempts,omitempty"`
}

type Redis struct {
	Addr      string `json:"addr,omitempty" env:"REDIS_ADDR"`
	Password  string `json:"-" env:"REDIS_PASSWORD"`
	DB        int    `json:"db,omitempty" env:"REDIS_DB"`
	KeyPrefix string `json:"key_prefix,omitempty"`
}

func (r *Redis) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", r.Addr),
		slog.Int("db", r.DB),
		slog.String("key_prefix", r.KeyPrefix),
	)
}

type Config struct {
	App     *App     `json:"app,omitempty"`
	Server  *Server  `json:"server,omitempty"`
	DB      *DB      `json:"db,omitempty"`
	JWT     *JWT     `json:"jwt,omitempty"`
	Cookie  *Cookie  `json:"cookie,omitempty"`
	CSRF    *CSRF    `json:"csrf,omitempty"`
	Argon2  *Argon2  `json:"argon2,omitempty"`
	Refresh *Refresh `json:"refresh,omitempty"`
	Redis   *Redis   `json:"redis,omitempty"`
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("app", c.App),
		slog.Any("server", c.Server),
		slog.Any("db", c.DB),
		slog.Any("jwt", c.JWT),
		slog.Any("cookie", c.Cookie),
		slog.Any("csrf", c.CSRF),
		slog.Any("argon2", c.Argon2),
		slog.Any("refresh", c.Refresh),
		slog.Any("redis", c.Redis),
	)
}

// Load reads the JSON config file and then applies environment overrides.
func Load(cfgFile string) (*Config, error) {
	slog.Info("Loading config...")
	cfg, err := parseCfgFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := env.OverrideStruct(cfg); err != nil {
		return nil, fmt.Errorf("override config with env: %w", err)
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", cfg))
	return cfg, nil
}

func parseCfgFile(cfgFile string) (*Config, error) {
	cfgFile = filepath.Clean(cfgFile)
	data, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return &cfg, nil
}
