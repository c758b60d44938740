package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Enrich  EnrichConfig
	Weather WeatherConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
}

type MongoConfig struct {
	URI             string        `env:"MONGO_URI,              required"`
	Database        string        `env:"MONGO_DB,               default=campus_event"`
	ConnectTimeout  time.Duration `env:"MONGO_CONNECT_TIMEOUT,  default=10s"`
	ConnectAttempts uint64        `env:"MONGO_CONNECT_ATTEMPTS, default=3"`
}

// RedisConfig configures the weather cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type EnrichConfig struct {
	Workers         int    `env:"ENRICH_WORKERS, default=4"`
	GeocodingAPIKey string `env:"GEOCODING_API_KEY"`
}

type WeatherConfig struct {
	APIKey   string        `env:"OPENWEATHER_API_KEY"`
	CacheTTL time.Duration `env:"WEATHER_CACHE_TTL, default=10m"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l. A required value that is present but
// blank is treated as missing.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var errs []error
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be blank"))
	}
	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		errs = append(errs, errors.New("MONGO_URI must not be blank"))
	}
	if cfg.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
