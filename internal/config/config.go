package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is populated from the environment. DATABASE_URL switches the
// storage backend to PostgreSQL; REDIS_URL switches the session store to
// redis. Both default to in-memory.
type Config struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	SessionSecret string        `envconfig:"SESSION_SECRET" default:"storefront-dev-secret"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"15m"`
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"5"`

	RequestRateLimit float64 `envconfig:"REQUEST_RATE_LIMIT" default:"100"`
	RequestRateBurst int     `envconfig:"REQUEST_RATE_BURST" default:"200"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"corsinhastore@gmail.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"01042011"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
