package config

import (
	"fmt"

	"github.com/executehq/concierge/pkg/gateway"
)

// Storage driver names.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

const (
	defaultListen         = ":8080"
	defaultAllowedOrigins = "*"
	defaultStorageDriver  = StorageSQLite
	defaultKafkaTopic     = "concierge.chat"
	defaultServerTarget   = "http://localhost:8080"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Gateway: GatewayConfig{
			URL:   gateway.DefaultURL,
			Model: gateway.DefaultModel,
		},
		Server: ServerConfig{
			Listen:         defaultListen,
			AllowedOrigins: defaultAllowedOrigins,
		},
		Storage: StorageConfig{
			Driver: defaultStorageDriver,
		},
		Events: EventsConfig{
			KafkaTopic: defaultKafkaTopic,
		},
		Client: ClientConfig{
			ServerTarget: defaultServerTarget,
		},
	}
}

// ValidateStorageDriver rejects unknown storage driver names.
func ValidateStorageDriver(name string) error {
	switch name {
	case StorageMemory, StorageSQLite, StoragePostgres:
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q (want %s, %s or %s)",
			name, StorageMemory, StorageSQLite, StoragePostgres)
	}
}
