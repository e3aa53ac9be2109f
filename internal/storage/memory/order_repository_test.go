package memory_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
)

func testOrder(id string, status domain.OrderStatus, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:          id,
		Status:      status,
		AmountMinor: 1000,
		ItemCount:   1,
		Items: []domain.OrderItem{
			{ID: id + "-item", ProductID: "p1", Qty: 1, PriceMinor: 1000, CreatedAt: createdAt},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	now := time.Now().UTC()

	order := testOrder("order-1", domain.OrderStatusPending, now)
	if err := repo.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(order); !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists, got %v", err)
	}

	got, err := repo.Get("order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AmountMinor != 1000 || len(got.Items) != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}

	// Мутация результата не должна затрагивать хранилище.
	got.Items[0].PriceMinor = 9999
	reread, _ := repo.Get("order-1")
	if reread.Items[0].PriceMinor != 1000 {
		t.Fatal("stored item mutated through returned copy")
	}

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListPagination(t *testing.T) {
	repo := memory.NewOrderRepository()
	base := time.Now().UTC()

	// 7 pending и 3 cancelled заказов.
	for i := 0; i < 10; i++ {
		status := domain.OrderStatusPending
		if i%3 == 0 {
			status = domain.OrderStatusCancelled
		}
		order := testOrder(fmt.Sprintf("order-%02d", i), status, base.Add(time.Duration(i)*time.Second))
		if err := repo.Create(order); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := repo.List(domain.Pagination{Page: 1, Limit: 4})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Meta.Total != 10 || page.Meta.LastPage != 3 {
		t.Fatalf("unexpected meta: %+v", page.Meta)
	}
	if len(page.Data) != 4 {
		t.Fatalf("expected 4 orders, got %d", len(page.Data))
	}
	// Порядок создания стабилен.
	if page.Data[0].ID != "order-00" || page.Data[3].ID != "order-03" {
		t.Fatalf("unexpected page order: %s .. %s", page.Data[0].ID, page.Data[3].ID)
	}

	cancelled := domain.OrderStatusCancelled
	filtered, err := repo.List(domain.Pagination{Page: 1, Limit: 10, Status: &cancelled})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if filtered.Meta.Total != 4 {
		t.Fatalf("expected 4 cancelled orders, got %d", filtered.Meta.Total)
	}
	for _, order := range filtered.Data {
		if order.Status != cancelled {
			t.Fatalf("filter leak: %+v", order)
		}
	}

	// Страница за пределами данных пуста, но meta сохраняется.
	empty, err := repo.List(domain.Pagination{Page: 9, Limit: 4})
	if err != nil {
		t.Fatalf("list out of range: %v", err)
	}
	if len(empty.Data) != 0 || empty.Meta.Total != 10 {
		t.Fatalf("unexpected out-of-range page: %+v", empty)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := memory.NewOrderRepository()
	now := time.Now().UTC()
	if err := repo.Create(testOrder("order-1", domain.OrderStatusPending, now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateStatus("order-1", domain.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}
	if !updated.UpdatedAt.After(now) && !updated.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at not refreshed: %v", updated.UpdatedAt)
	}

	if _, err := repo.UpdateStatus("missing", domain.OrderStatusDelivered); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_MarkPaid(t *testing.T) {
	repo := memory.NewOrderRepository()
	now := time.Now().UTC()
	if err := repo.Create(testOrder("order-1", domain.OrderStatusPending, now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	payment := domain.PaymentInfo{ChargeID: "ch_123", ReceiptURL: "https://pay.example/r/1", PaidAt: now}
	updated, err := repo.MarkPaid("order-1", payment)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !updated.Paid || updated.Payment.ChargeID != "ch_123" {
		t.Fatalf("payment not recorded: %+v", updated)
	}

	if _, err := repo.MarkPaid("missing", payment); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
