package domain

import (
	"context"
	"time"
)

// ProductValidator описывает взаимодействие с удалённым сервисом продуктов.
type ProductValidator interface {
	// Validate подтверждает существование набора товаров и возвращает их
	// актуальные имя и цену. Удалённая сторона может молча опустить
	// неизвестные идентификаторы — отсутствие обнаруживается при сборке
	// заказа. Любая удалённая/транспортная ошибка приходит как
	// *RemoteValidationError.
	Validate(ctx context.Context, productIDs []string) ([]ProductSnapshot, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// TimelineEvent — одно событие жизненного цикла заказа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
