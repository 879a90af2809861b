package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/executehq/concierge/cmd/concierge/sqlitepath"
	"github.com/executehq/concierge/pkg/config"
	"github.com/executehq/concierge/pkg/eventstream"
	"github.com/executehq/concierge/pkg/eventstream/kafka"
	"github.com/executehq/concierge/pkg/eventstream/nop"
	"github.com/executehq/concierge/pkg/storage"
	"github.com/executehq/concierge/pkg/storage/inmemory"
	"github.com/executehq/concierge/pkg/storage/postgres"
	"github.com/executehq/concierge/pkg/storage/sqlite"
)

// newDriver opens the transcript store selected by cfg.Driver.
func newDriver(ctx context.Context, cfg config.StorageConfig, configDir string, log *slog.Logger) (storage.Driver, error) {
	switch cfg.Driver {
	case config.StorageSQLite:
		path, err := sqlitepath.ResolveOrDefault(cfg.SQLitePath, configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving sqlite path: %w", err)
		}

		driver, err := sqlite.NewSQLiteDriver(ctx, path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite driver: %w", err)
		}
		log.Info("using SQLite storage", "path", path)
		return driver, nil

	case config.StoragePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres storage needs --postgres-dsn")
		}

		driver, err := postgres.NewDriver(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL driver: %w", err)
		}
		log.Info("using PostgreSQL storage")
		return driver, nil

	case config.StorageMemory, "":
		log.Info("using in-memory storage")
		return inmemory.NewDriver(), nil

	default:
		return nil, config.ValidateStorageDriver(cfg.Driver)
	}
}

// newPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func newPublisher(cfg config.EventsConfig, log *slog.Logger) (eventstream.Publisher, error) {
	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		log.Debug("chat events disabled, no kafka brokers configured")
		return nop.NewPublisher(), nil
	}

	publisher, err := kafka.NewPublisher(kafka.Config{
		Brokers: brokers,
		Topic:   cfg.KafkaTopic,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}
	log.Info("publishing chat events to kafka",
		"brokers", brokers,
		"topic", cfg.KafkaTopic,
	)
	return publisher, nil
}
