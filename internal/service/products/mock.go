package products

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// MockValidator — конфигурируемая заглушка ProductValidator для локальной
// разработки и тестов. Ведёт себя как удалённый сервис: возвращает снапшоты
// только для известных товаров, неизвестные молча опускает.
type MockValidator struct {
	mu sync.Mutex

	catalog map[string]domain.ProductSnapshot
	err     error

	ValidateCalls int
	LastIDs       []string
}

// NewMockValidator возвращает mock с заданным каталогом товаров.
func NewMockValidator(catalog ...domain.ProductSnapshot) *MockValidator {
	m := &MockValidator{catalog: make(map[string]domain.ProductSnapshot, len(catalog))}
	for _, snapshot := range catalog {
		m.catalog[snapshot.ID] = snapshot
	}
	return m
}

// Validate возвращает снапшоты для известных идентификаторов или
// заранее настроенную ошибку.
func (m *MockValidator) Validate(_ context.Context, productIDs []string) ([]domain.ProductSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ValidateCalls++
	m.LastIDs = append([]string(nil), productIDs...)

	if m.err != nil {
		return nil, m.err
	}

	seen := make(map[string]struct{}, len(productIDs))
	result := make([]domain.ProductSnapshot, 0, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if snapshot, ok := m.catalog[id]; ok {
			result = append(result, snapshot)
		}
	}
	return result, nil
}

// SetProduct добавляет или заменяет товар в каталоге mock-а.
func (m *MockValidator) SetProduct(snapshot domain.ProductSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog[snapshot.ID] = snapshot
}

// RemoveProduct удаляет товар — имитация исчезновения из каталога.
func (m *MockValidator) RemoveProduct(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.catalog, id)
}

// FailWith настраивает ошибку, возвращаемую следующим вызовам Validate.
func (m *MockValidator) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

var _ domain.ProductValidator = (*MockValidator)(nil)
