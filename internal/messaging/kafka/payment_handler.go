package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// PaymentApplier применяет подтверждение оплаты к заказу.
type PaymentApplier interface {
	MarkPaid(ctx context.Context, orderID string, payment domain.PaymentInfo) error
}

// NewPaymentHandler возвращает MessageHandler для топика платёжных событий.
// Сообщения с чужим event_type пропускаются без ошибки.
func NewPaymentHandler(applier PaymentApplier, logger *log.Entry) MessageHandler {
	if logger == nil {
		logger = log.WithField("component", "payment-handler")
	}

	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		event, err := ParsePaymentSucceededEvent(message)
		if err != nil {
			return err
		}
		if event.EventType != EventTypePaymentSucceeded {
			logger.WithField("event_type", event.EventType).Debug("skipping non-payment event")
			return nil
		}

		payment := domain.PaymentInfo{
			ChargeID:   event.ChargeID,
			ReceiptURL: event.ReceiptURL,
			PaidAt:     event.PaidAt,
		}
		if err := applier.MarkPaid(ctx, event.OrderID, payment); err != nil {
			return fmt.Errorf("apply payment for order %s: %w", event.OrderID, err)
		}

		logger.WithFields(log.Fields{
			"order_id":  event.OrderID,
			"charge_id": event.ChargeID,
		}).Info("order marked as paid")
		return nil
	}
}
