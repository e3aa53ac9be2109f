package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и ожидает дальнейшей обработки.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusCancelled — заказ отменён до доставки.
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusDelivered — заказ доставлен покупателю.
	OrderStatusDelivered OrderStatus = "delivered"
)

// ParseOrderStatus валидирует строковое значение статуса.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	switch OrderStatus(value) {
	case OrderStatusPending, OrderStatusCancelled, OrderStatusDelivered:
		return OrderStatus(value), true
	default:
		return "", false
	}
}

// allowedTransitions задаёт конечную таблицу переходов статусов.
// Переход в тот же статус обрабатывается выше как идемпотентный no-op
// и в таблицу не входит.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusCancelled, OrderStatusDelivered},
	OrderStatusCancelled: {},
	OrderStatusDelivered: {},
}

// CanTransitionTo проверяет, разрешён ли переход в новый статус.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string
	// ProductID — внешний идентификатор товара в каталоге продуктов.
	// Локально не валидируется: источником истины служит удалённый сервис.
	ProductID string
	// Qty — количество единиц товара.
	Qty int32
	// PriceMinor — цена за единицу в минимальных денежных единицах,
	// зафиксированная в момент создания заказа. После создания не меняется,
	// даже если цена в каталоге изменилась.
	PriceMinor int64
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// PaymentInfo содержит подтверждение оплаты от платёжного сервиса.
// Для ядра заказов это непрозрачные метаданные.
type PaymentInfo struct {
	ChargeID   string
	ReceiptURL string
	PaidAt     time.Time
}

// Order агрегирует состояние заказа и его позиции.
// Позиции принадлежат заказу эксклюзивно и живут вместе с ним.
type Order struct {
	ID          string
	Status      OrderStatus
	AmountMinor int64
	ItemCount   int32
	Paid        bool
	Payment     PaymentInfo
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.AmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}
	if _, ok := ParseOrderStatus(string(o.Status)); !ok {
		errs = append(errs, ErrStatusUnknown)
	}

	// Сверяем тоталы заказа с суммами по позициям.
	var amount int64
	var count int32
	for _, item := range o.Items {
		if item.ProductID == "" {
			errs = append(errs, ErrItemProductRequired)
		}
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		amount += int64(item.Qty) * item.PriceMinor
		count += item.Qty
	}
	if amount != o.AmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}
	if count != o.ItemCount {
		errs = append(errs, ErrItemCountMismatch)
	}

	return errs
}
