package postgres

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

func TestTimelineRepositoryIntegration_AppendAndList(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewTimelineRepository(store)

	now := time.Now().UTC().Truncate(time.Microsecond)
	events := []domain.TimelineEvent{
		{OrderID: "order-1", Type: "OrderCreated", Reason: "pending", Occurred: now},
		{OrderID: "order-1", Type: "OrderStatusChanged", Reason: "delivered", Occurred: now.Add(time.Second)},
		{OrderID: "order-2", Type: "OrderCreated", Reason: "pending", Occurred: now},
	}
	for i, event := range events {
		if err := repo.Append(event); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.List("order-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for order-1, got %d", len(got))
	}
	if got[0].Type != "OrderCreated" || got[1].Type != "OrderStatusChanged" {
		t.Fatalf("unexpected event order: %+v", got)
	}
	if got[1].Reason != "delivered" {
		t.Fatalf("unexpected reason: %s", got[1].Reason)
	}

	empty, err := repo.List("order-3")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no events, got %d", len(empty))
	}
}
