package domain

import "time"

// OrderItemRequest — запрошенная позиция будущего заказа. Цену клиент
// не передаёт: она берётся из валидированного снапшота.
type OrderItemRequest struct {
	ProductID string
	Qty       int32
}

// BuildOrder собирает заказ из запрошенных позиций и валидированных
// снапшотов. Функция детерминирована и не имеет побочных эффектов:
// идентификаторы позиций и заказа назначает вызывающая сторона.
//
// Каждая позиция обязана найти свой снапшот; отсутствие — фатальная
// ошибка, частичный заказ не строится. Тоталы считаются в минимальных
// денежных единицах без плавающей точки.
func BuildOrder(items []OrderItemRequest, snapshots []ProductSnapshot, now time.Time) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrItemsRequired
	}

	index := IndexSnapshots(snapshots)

	orderItems := make([]OrderItem, 0, len(items))
	var amountMinor int64
	var itemCount int32
	for _, item := range items {
		if item.Qty <= 0 {
			return Order{}, ErrItemQtyInvalid
		}
		snapshot, ok := index[item.ProductID]
		if !ok {
			return Order{}, &ProductNotFoundError{ProductID: item.ProductID}
		}

		orderItems = append(orderItems, OrderItem{
			ProductID:  item.ProductID,
			Qty:        item.Qty,
			PriceMinor: snapshot.PriceMinor,
			CreatedAt:  now,
		})
		amountMinor += snapshot.PriceMinor * int64(item.Qty)
		itemCount += item.Qty
	}

	return Order{
		Status:      OrderStatusPending,
		AmountMinor: amountMinor,
		ItemCount:   itemCount,
		Items:       orderItems,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ProductIDs возвращает идентификаторы товаров из запрошенных позиций.
// Дубликаты не схлопываются: контракт валидации их допускает.
func ProductIDs(items []OrderItemRequest) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ItemProductIDs возвращает идентификаторы товаров из сохранённых позиций,
// чтобы повторно разрешить имена при чтении заказа.
func ItemProductIDs(items []OrderItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
