package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherFamily(t *testing.T, registry *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	t.Fatalf("metric family %q not found", name)
	return nil
}

func TestOrderMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordOrderCreated()
	m.RecordOrderCreated()
	m.RecordOrderPaid()
	m.RecordOrderCreateFailed("product_not_found")
	m.RecordOrderCreateFailed("persistence")
	m.RecordOrderCreateFailed("persistence")
	m.RecordStatusChange("delivered")

	created := gatherFamily(t, registry, "orders_created_total")
	if got := created.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 created, got %f", got)
	}

	paid := gatherFamily(t, registry, "orders_paid_total")
	if got := paid.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 paid, got %f", got)
	}

	failed := gatherFamily(t, registry, "orders_create_failed_total")
	byReason := map[string]float64{}
	for _, metric := range failed.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "reason" {
				byReason[label.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}
	if byReason["product_not_found"] != 1 || byReason["persistence"] != 2 {
		t.Fatalf("unexpected failure counters: %v", byReason)
	}

	changes := gatherFamily(t, registry, "orders_status_changes_total")
	if got := changes.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 status change, got %f", got)
	}
}

func TestOrderMetrics_Histograms(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordCreateDuration(25 * time.Millisecond)
	m.RecordValidationDuration(5 * time.Millisecond)

	create := gatherFamily(t, registry, "orders_create_duration_seconds")
	if got := create.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("expected 1 create observation, got %d", got)
	}

	validation := gatherFamily(t, registry, "orders_product_validation_duration_seconds")
	if got := validation.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("expected 1 validation observation, got %d", got)
	}
}

func TestOrderMetrics_DoubleRegistrationReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.RecordOrderCreated()
	second.RecordOrderCreated()

	created := gatherFamily(t, registry, "orders_created_total")
	if got := created.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected shared counter with value 2, got %f", got)
	}
}
