package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrItemsRequired — заказ обязан содержать хотя бы одну позицию.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// ErrAmountNegative — сумма заказа не может быть отрицательной.
	ErrAmountNegative = errors.New("total amount must be non-negative")
	// ErrAmountMismatch — сумма заказа не совпадает с суммой позиций.
	ErrAmountMismatch = errors.New("order amount does not match items sum")
	// ErrItemCountMismatch — total_items не совпадает с суммой количеств.
	ErrItemCountMismatch = errors.New("order item count does not match items sum")
	// ErrItemQtyInvalid — количество в позиции должно быть положительным.
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// ErrItemPriceInvalid — цена позиции не может быть отрицательной.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// ErrItemProductRequired — позиция без идентификатора товара не имеет смысла.
	ErrItemProductRequired = errors.New("item product_id is required")
	// ErrStatusUnknown — статус вне известного перечня.
	ErrStatusUnknown = errors.New("unknown order status")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists — попытка создать заказ с занятым ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrOutboxRecordMissing — outbox-запись не найдена при смене статуса публикации.
	ErrOutboxRecordMissing = errors.New("outbox record not found")
)

// RemoteValidationError оборачивает ошибку удалённого сервиса продуктов.
// Статус и сообщение удалённой стороны сохраняются дословно, retry на
// этом уровне не выполняется.
type RemoteValidationError struct {
	StatusCode int
	Message    string
}

func (e *RemoteValidationError) Error() string {
	return fmt.Sprintf("product validation failed: status=%d message=%s", e.StatusCode, e.Message)
}

// ProductNotFoundError сигнализирует, что запрошенный товар отсутствует
// в ответе валидации. Ошибка фатальна для создания заказа целиком.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s was not returned by validation", e.ProductID)
}

// StatusTransitionError возвращается при запрещённом переходе статусов.
type StatusTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("status transition %s -> %s is not allowed", e.From, e.To)
}

// IsRemoteValidation проверяет, является ли ошибка сбоем удалённой валидации.
func IsRemoteValidation(err error) bool {
	var target *RemoteValidationError
	return errors.As(err, &target)
}

// IsProductNotFound проверяет, что причиной отказа стал невалидированный товар.
func IsProductNotFound(err error) bool {
	var target *ProductNotFoundError
	return errors.As(err, &target)
}
