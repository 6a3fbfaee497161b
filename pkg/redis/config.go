package redis

import "time"

// Config describes the Redis connection, loadable from the environment.
// An empty ConnectionURL disables every feature that needs Redis.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:""`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether a Redis connection is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
