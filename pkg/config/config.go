package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RENTRACK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Subscription SubscriptionConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RENTRACK_APP_ENV" default:"dev"`
	Port         string `envconfig:"RENTRACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RENTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"RENTRACK_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"RENTRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTRACK_REDIS_URL"`
	Address      string        `envconfig:"RENTRACK_REDIS_ADDR"`
	Password     string        `envconfig:"RENTRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"RENTRACK_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"RENTRACK_JWT_ISSUER" default:"rentrack"`

	ExpirationMinutes int `envconfig:"RENTRACK_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type SubscriptionConfig struct {
	// CountCacheTTL bounds how stale the cached per-organization item count
	// used by the subscription gate may be.
	CountCacheTTL time.Duration `envconfig:"RENTRACK_SUBSCRIPTION_COUNT_CACHE_TTL" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RENTRACK_FEATURE_AUTO_MIGRATE" default:"false"`
}
