package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
	"github.com/vladislavdragonenkov/orders/internal/service/products"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Repo         domain.OrderRepository
	OutboxRepo   domain.OutboxRepository
	TimelineRepo domain.TimelineRepository
	Validator    domain.ProductValidator
	Metrics      *metrics.OrderMetrics
	Logger       *log.Entry
}

// NewDependencies создаёт in-memory зависимости приложения.
// NOTE: валидатор продуктов — конфигурируемый mock с демо-каталогом.
// В production его заменяет клиент реального сервиса продуктов.
func NewDependencies(logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	return &Dependencies{
		Repo:         memory.NewOrderRepository(),
		OutboxRepo:   memory.NewOutboxRepository(),
		TimelineRepo: memory.NewTimelineRepository(),
		Validator: products.NewMockValidator(
			domain.ProductSnapshot{ID: "demo-keyboard", Name: "Keyboard", PriceMinor: 4990},
			domain.ProductSnapshot{ID: "demo-mouse", Name: "Mouse", PriceMinor: 2490},
			domain.ProductSnapshot{ID: "demo-monitor", Name: "Monitor", PriceMinor: 19990},
		),
		Metrics: metrics.NewOrderMetrics(),
		Logger:  logger,
	}
}
