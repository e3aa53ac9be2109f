package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// helper для создания согласованного заказа с двумя позициями.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:          "order-1",
		Status:      domain.OrderStatusPending,
		AmountMinor: 2500,
		ItemCount:   3,
		Items: []domain.OrderItem{
			{
				ID:         "item-1",
				ProductID:  "p1",
				Qty:        2,
				PriceMinor: 1000,
				CreatedAt:  now,
			},
			{
				ID:         "item-2",
				ProductID:  "p2",
				Qty:        1,
				PriceMinor: 500,
				CreatedAt:  now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
				o.AmountMinor = 0
				o.ItemCount = 0
			},
		},
		{
			name: "negative amount",
			mut: func(o *domain.Order) {
				o.AmountMinor = -1
			},
		},
		{
			name: "unknown status",
			mut: func(o *domain.Order) {
				o.Status = "shipped"
			},
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Qty = 0
			},
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].PriceMinor = -5
			},
		},
		{
			name: "amount mismatch",
			mut: func(o *domain.Order) {
				o.AmountMinor = 9999
			},
		},
		{
			name: "item count mismatch",
			mut: func(o *domain.Order) {
				o.ItemCount = 42
			},
		},
		{
			name: "item without product",
			mut: func(o *domain.Order) {
				o.Items[1].ProductID = ""
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"pending", "cancelled", "delivered"} {
		if _, ok := domain.ParseOrderStatus(valid); !ok {
			t.Fatalf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "PENDING", "shipped", "paid"} {
		if _, ok := domain.ParseOrderStatus(invalid); ok {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPending, domain.OrderStatusDelivered, true},
		{domain.OrderStatusCancelled, domain.OrderStatusPending, false},
		{domain.OrderStatusCancelled, domain.OrderStatusDelivered, false},
		{domain.OrderStatusDelivered, domain.OrderStatusPending, false},
		{domain.OrderStatusDelivered, domain.OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("transition %s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}
