package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNewDependencies(t *testing.T) {
	deps := NewDependencies(nil)

	if deps.Repo == nil {
		t.Error("order repository should be initialized")
	}
	if deps.OutboxRepo == nil {
		t.Error("outbox repository should be initialized")
	}
	if deps.TimelineRepo == nil {
		t.Error("timeline repository should be initialized")
	}
	if deps.Validator == nil {
		t.Error("product validator should be initialized")
	}
	if deps.Metrics == nil {
		t.Error("metrics should be initialized")
	}
	if deps.Logger == nil {
		t.Error("logger should be initialized")
	}

	// Демо-каталог отвечает на валидацию.
	snapshots, err := deps.Validator.Validate(context.Background(), []string{"demo-keyboard"})
	if err != nil {
		t.Fatalf("validate demo product: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].Name != "Keyboard" {
		t.Fatalf("unexpected demo snapshot: %+v", snapshots)
	}
}

func TestNewDependenciesWithLogger(t *testing.T) {
	logger := log.WithField("test", "deps")
	deps := NewDependencies(logger)
	if deps.Logger != logger {
		t.Error("provided logger should be kept")
	}
}

func TestInitPostgresStorage_EmptyDSN(t *testing.T) {
	deps := NewDependencies(nil)
	memRepo := deps.Repo

	store, err := initPostgresStorage(context.Background(), "", deps, deps.Logger)
	if err != nil {
		t.Fatalf("empty dsn should not fail: %v", err)
	}
	if store != nil {
		t.Error("store should be nil for empty dsn")
	}
	if deps.Repo != memRepo {
		t.Error("in-memory repository should be kept for empty dsn")
	}
}
