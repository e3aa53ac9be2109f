package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create атомарно сохраняет заказ вместе с позициями: либо видны все
	// строки, либо ни одной. Возвращает ErrOrderAlreadyExists при занятом ID.
	Create(order Order) error
	// List возвращает страницу заказов с общим количеством по тому же
	// фильтру. Оба чтения используют одинаковый предикат статуса; строгая
	// согласованность между ними не требуется.
	List(p Pagination) (OrderPage, error)
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(id string) (Order, error)
	// UpdateStatus безусловно сохраняет новый статус. Легальность перехода
	// проверяется слоем выше.
	UpdateStatus(id string, status OrderStatus) (Order, error)
	// MarkPaid фиксирует подтверждение оплаты и платёжные метаданные.
	MarkPaid(id string, payment PaymentInfo) (Order, error)
}
