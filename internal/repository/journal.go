package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"greeter/internal/config"
	"greeter/internal/domain"
	"greeter/internal/repository/memory"
	"greeter/internal/repository/mongodb"
	"greeter/internal/repository/postgres"
	"greeter/pkg/db"
)

// OpenJournal создает журнал вызовов по journal.driver.
// При выключенном журнале возвращает nil без ошибки.
// closeFn освобождает соединения и всегда не nil.
func OpenJournal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.CallRepository, func(), error) {
	noop := func() {}

	if !cfg.Journal.Enabled {
		logger.Info("call journal disabled")
		return nil, noop, nil
	}

	switch cfg.Journal.Driver {
	case "memory":
		logger.Info("using in-memory call journal", "capacity", cfg.Journal.Capacity)
		return memory.NewMemoryCallRepository(cfg.Journal.Capacity), noop, nil

	case "postgres":
		pg, err := db.ConnectPostgres(ctx, db.PostgresConfig(cfg.Postgres))
		if err != nil {
			return nil, noop, err
		}
		if err := db.RunMigrations(ctx, pg); err != nil {
			pg.Close()
			return nil, noop, err
		}
		logger.Info("using postgres call journal", "host", cfg.Postgres.Host, "db", cfg.Postgres.Name)
		return postgres.NewPostgresCallRepository(pg), func() { pg.Close() }, nil

	case "mongo":
		client, err := db.ConnectMongoDB(ctx, db.MongoConfig(cfg.Mongo))
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logger.Warn("failed to disconnect MongoDB", "error", err)
			}
		}
		if err := db.CreateIndexes(ctx, client, cfg.Mongo.Database, mongodb.CallsCollection); err != nil {
			closeFn()
			return nil, noop, err
		}
		logger.Info("using mongo call journal", "db", cfg.Mongo.Database)
		return mongodb.NewMongoCallRepository(client, cfg.Mongo.Database), closeFn, nil
	}

	return nil, noop, fmt.Errorf("%w: %q", domain.ErrUnknownDriver, cfg.Journal.Driver)
}
