package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/storage/postgres"
)

// initPostgresStorage подключается к PostgreSQL, применяет миграции и
// переключает зависимости на персистентные репозитории. Пустой DSN
// оставляет in-memory хранилище.
func initPostgresStorage(ctx context.Context, dsn string, deps *Dependencies, logger *log.Entry) (*postgres.Store, error) {
	if dsn == "" {
		logger.Info("postgres dsn is empty, using in-memory storage")
		return nil, nil
	}

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres storage: %w", err)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	deps.Repo = postgres.NewOrderRepository(store)
	deps.OutboxRepo = postgres.NewOutboxRepository(store)
	deps.TimelineRepo = postgres.NewTimelineRepository(store)

	logger.Info("postgres storage initialized")
	return store, nil
}
