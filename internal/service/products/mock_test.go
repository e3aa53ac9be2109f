package products_test

import (
	"context"
	"testing"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/service/products"
)

func TestMockValidator_KnownAndUnknown(t *testing.T) {
	validator := products.NewMockValidator(
		domain.ProductSnapshot{ID: "p1", Name: "A", PriceMinor: 1000},
		domain.ProductSnapshot{ID: "p2", Name: "B", PriceMinor: 500},
	)

	// Неизвестный товар молча опускается, дубликаты схлопываются.
	snapshots, err := validator.Validate(context.Background(), []string{"p1", "ghost", "p1", "p2"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snapshots))
	}
	if snapshots[0].ID != "p1" || snapshots[1].ID != "p2" {
		t.Fatalf("unexpected snapshots: %+v", snapshots)
	}

	if validator.ValidateCalls != 1 {
		t.Fatalf("expected 1 call, got %d", validator.ValidateCalls)
	}
	if len(validator.LastIDs) != 4 {
		t.Fatalf("expected recorded ids to keep duplicates, got %v", validator.LastIDs)
	}
}

func TestMockValidator_FailWith(t *testing.T) {
	validator := products.NewMockValidator()
	validator.FailWith(&domain.RemoteValidationError{StatusCode: 502, Message: "bad gateway"})

	_, err := validator.Validate(context.Background(), []string{"p1"})
	if !domain.IsRemoteValidation(err) {
		t.Fatalf("expected remote validation error, got %v", err)
	}
}

func TestMockValidator_CatalogMutation(t *testing.T) {
	validator := products.NewMockValidator(domain.ProductSnapshot{ID: "p1", Name: "A", PriceMinor: 1000})

	validator.SetProduct(domain.ProductSnapshot{ID: "p1", Name: "A", PriceMinor: 2000})
	snapshots, err := validator.Validate(context.Background(), []string{"p1"})
	if err != nil || len(snapshots) != 1 || snapshots[0].PriceMinor != 2000 {
		t.Fatalf("expected updated price, got %v (%v)", snapshots, err)
	}

	validator.RemoveProduct("p1")
	snapshots, err = validator.Validate(context.Background(), []string{"p1"})
	if err != nil || len(snapshots) != 0 {
		t.Fatalf("expected empty result after removal, got %v (%v)", snapshots, err)
	}
}
