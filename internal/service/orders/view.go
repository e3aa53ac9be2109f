package orders

import (
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// UnknownProductName подставляется, когда товар исчез из каталога после
// создания заказа: чтение не падает, сохранённый снапшот цены остаётся
// источником истины.
const UnknownProductName = "unknown"

// OrderItemView — позиция заказа, обогащённая именем товара.
type OrderItemView struct {
	ProductID  string `json:"productId"`
	Qty        int32  `json:"quantity"`
	PriceMinor int64  `json:"price"`
	Name       string `json:"name"`
}

// TimelineEventView — событие жизненного цикла в ответе.
type TimelineEventView struct {
	Type     string `json:"type"`
	Reason   string `json:"reason,omitempty"`
	UnixTime int64  `json:"unixTime"`
}

// OrderView — представление заказа, возвращаемое вызывающей стороне.
type OrderView struct {
	ID          string              `json:"id"`
	Status      domain.OrderStatus  `json:"status"`
	AmountMinor int64               `json:"totalAmount"`
	ItemCount   int32               `json:"totalItems"`
	Paid        bool                `json:"paid"`
	ReceiptURL  string              `json:"receiptUrl,omitempty"`
	Items       []OrderItemView     `json:"orderItems"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Timeline    []TimelineEventView `json:"timeline,omitempty"`
}

// DecorateOrder объединяет сохранённые позиции с именами из валидированных
// снапшотов. Чистая функция: не ходит ни в хранилище, ни в удалённый сервис.
func DecorateOrder(order domain.Order, index domain.SnapshotIndex) *OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		name := UnknownProductName
		if snapshot, ok := index[item.ProductID]; ok {
			name = snapshot.Name
		}
		items = append(items, OrderItemView{
			ProductID:  item.ProductID,
			Qty:        item.Qty,
			PriceMinor: item.PriceMinor,
			Name:       name,
		})
	}

	return &OrderView{
		ID:          order.ID,
		Status:      order.Status,
		AmountMinor: order.AmountMinor,
		ItemCount:   order.ItemCount,
		Paid:        order.Paid,
		ReceiptURL:  order.Payment.ReceiptURL,
		Items:       items,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// toTimelineViews конвертирует события таймлайна для ответа.
func toTimelineViews(events []domain.TimelineEvent) []TimelineEventView {
	if len(events) == 0 {
		return nil
	}
	result := make([]TimelineEventView, 0, len(events))
	for _, event := range events {
		result = append(result, TimelineEventView{
			Type:     event.Type,
			Reason:   event.Reason,
			UnixTime: event.Occurred.Unix(),
		})
	}
	return result
}
