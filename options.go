package orderdex

import "go.uber.org/zap"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver     string // "redis", "valkey", "sqlite" or "postgres"
	addrs      []string
	password   string
	standalone bool
	path       string
	dsn        string

	keyPrefix string
	logger    *zap.Logger
}

// WithRedis configures the client to persist runs in a Redis instance.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = addrs
	}
}

// WithValkey configures the client to persist runs in a Valkey instance.
func WithValkey(addrs ...string) Option {
	return func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = addrs
	}
}

// WithPassword sets the password for Redis or Valkey connections.
func WithPassword(password string) Option {
	return func(c *clientConfig) {
		c.password = password
	}
}

// WithStandalone disables cluster topology discovery. Use for standalone
// Valkey instances not managed by a cluster operator.
func WithStandalone() Option {
	return func(c *clientConfig) {
		c.standalone = true
	}
}

// WithSQLite configures the client to persist runs in an embedded SQLite
// database file. The file is created if it does not exist.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.driver = "sqlite"
		c.path = path
	}
}

// WithPostgres configures the client to persist runs in PostgreSQL.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.driver = "postgres"
		c.dsn = dsn
	}
}

// WithKeyPrefix namespaces every storage key, so multiple deployments can
// share one database.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithClientLogger enables structured logging for client operations.
func WithClientLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
