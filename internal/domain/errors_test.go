package domain_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

func TestRemoteValidationError(t *testing.T) {
	err := &domain.RemoteValidationError{StatusCode: 503, Message: "products service unavailable"}

	if !domain.IsRemoteValidation(err) {
		t.Fatal("expected IsRemoteValidation to match")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "products service unavailable") {
		t.Fatalf("error text must carry remote status and message verbatim: %s", err)
	}

	// Обёртки не теряют тип.
	wrapped := fmt.Errorf("create order: %w", err)
	if !domain.IsRemoteValidation(wrapped) {
		t.Fatal("expected wrapped error to match")
	}

	var target *domain.RemoteValidationError
	if !errors.As(wrapped, &target) || target.StatusCode != 503 {
		t.Fatalf("expected to unwrap original error, got %+v", target)
	}
}

func TestProductNotFoundError(t *testing.T) {
	err := &domain.ProductNotFoundError{ProductID: "p42"}

	if !domain.IsProductNotFound(err) {
		t.Fatal("expected IsProductNotFound to match")
	}
	if domain.IsProductNotFound(domain.ErrOrderNotFound) {
		t.Fatal("unrelated error must not match")
	}
	if !strings.Contains(err.Error(), "p42") {
		t.Fatalf("error text must name the product: %s", err)
	}
}

func TestStatusTransitionError(t *testing.T) {
	err := &domain.StatusTransitionError{From: domain.OrderStatusDelivered, To: domain.OrderStatusPending}
	if !strings.Contains(err.Error(), "delivered") || !strings.Contains(err.Error(), "pending") {
		t.Fatalf("error text must name both statuses: %s", err)
	}
}
