package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderPaid          EventType = "order.paid"

	// Payment события (входящие, от платёжного сервиса)
	EventTypePaymentSucceeded EventType = "payment.succeeded"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "orders.order.events"
	TopicPaymentEvents   = "orders.payment.events"
	TopicDeadLetterQueue = "orders.dlq"
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// PaymentSucceededEvent — подтверждение оплаты от платёжного сервиса.
type PaymentSucceededEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id"`
	ChargeID   string    `json:"charge_id"`
	ReceiptURL string    `json:"receipt_url"`
	PaidAt     time.Time `json:"paid_at"`
}

// ParsePaymentSucceededEvent парсит событие оплаты из сообщения.
func ParsePaymentSucceededEvent(message *sarama.ConsumerMessage) (*PaymentSucceededEvent, error) {
	var event PaymentSucceededEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment event: %w", err)
	}
	if event.OrderID == "" {
		return nil, fmt.Errorf("payment event has no order_id")
	}
	return &event, nil
}
