package redis

import (
	"time"

	"github.com/zanix-io/auth/core/config"
)

// Config holds Redis connection settings. Configured reports whether a
// connection URL is present; components use the distributed tier only when
// handed a store built from the connected client.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URI"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// LoadConfig reads the configuration from the environment (and any .env
// files passed through).
func LoadConfig(files ...string) (Config, error) {
	return config.Load[Config](files...)
}

// Configured reports whether a distributed store was selected.
func (c Config) Configured() bool { return c.ConnectionURL != "" }
