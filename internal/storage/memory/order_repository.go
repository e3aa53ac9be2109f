package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Create сохраняет новый заказ вместе с позициями, если ID ещё не занят.
// Запись под одним мьютексом даёт ту же атомарность, что транзакция в БД.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrOrderAlreadyExists
	}
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// List возвращает страницу заказов и общее количество по тому же фильтру.
func (r *orderRepositoryInMemory) List(p domain.Pagination) (domain.OrderPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p = p.Normalize(domain.DefaultPageLimit)

	matched := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if p.Status != nil && order.Status != *p.Status {
			continue
		}
		matched = append(matched, cloneOrder(order))
	}

	// Стабильный ключ сортировки: порядок создания, затем ID.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	offset := p.Offset()
	if offset > total {
		offset = total
	}
	end := offset + p.Limit
	if end > total {
		end = total
	}

	return domain.OrderPage{
		Data: matched[offset:end],
		Meta: domain.NewPageMeta(total, p.Page, p.Limit),
	}, nil
}

// Get возвращает заказ с позициями или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// UpdateStatus безусловно перезаписывает статус. Последняя запись побеждает.
func (r *orderRepositoryInMemory) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.items[id] = order
	return cloneOrder(order), nil
}

// MarkPaid фиксирует подтверждение оплаты.
func (r *orderRepositoryInMemory) MarkPaid(id string, payment domain.PaymentInfo) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Paid = true
	order.Payment = payment
	order.UpdatedAt = time.Now().UTC()
	r.items[id] = order
	return cloneOrder(order), nil
}

// cloneOrder копирует заказ вместе со срезом позиций, чтобы избежать
// непредсказуемых мутаций извне.
func cloneOrder(order domain.Order) domain.Order {
	clone := order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return clone
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
