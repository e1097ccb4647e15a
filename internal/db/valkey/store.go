// Package valkey implements db.Store via rueidis against a Valkey server.
// The command surface is identical to the redis driver; the two differ only
// in connection defaults, so Store embeds the redis implementation.
package valkey

import (
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/orderdex/internal/db"
	dbredis "github.com/kailas-cloud/orderdex/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Valkey store.
type Config struct {
	Addrs      []string
	Password   string
	Standalone bool
}

// Store implements db.Store for Valkey.
type Store struct {
	*dbredis.Store
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:       cfg.Addrs,
		Password:          cfg.Password,
		DisableCache:      true,
		ForceSingleClient: cfg.Standalone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{Store: dbredis.WrapClient(client)}, nil
}
