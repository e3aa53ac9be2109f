package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
)

func TestTimelineRepository_AppendAndList(t *testing.T) {
	repo := memory.NewTimelineRepository()

	now := time.Now().UTC()
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
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != "OrderCreated" || got[1].Type != "OrderStatusChanged" {
		t.Fatalf("unexpected event order: %+v", got)
	}

	empty, err := repo.List("unknown")
	if err != nil {
		t.Fatalf("list unknown: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty timeline, got %d", len(empty))
	}
}

func TestTimelineRepository_FillsOccurred(t *testing.T) {
	repo := memory.NewTimelineRepository()

	if err := repo.Append(domain.TimelineEvent{OrderID: "order-1", Type: "OrderPaid"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.List("order-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Occurred.IsZero() {
		t.Fatal("expected occurred timestamp to be filled")
	}
}
