package app

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	logger := log.New().WithField("component", "test")

	if producer := initKafkaProducer("", logger); producer != nil {
		t.Fatal("expected nil producer for empty brokers")
	}
}

func TestInitKafkaProducer_UnreachableBroker(t *testing.T) {
	logger := log.New().WithField("component", "test")

	// Недоступный брокер не должен валить приложение.
	if producer := initKafkaProducer("127.0.0.1:1", logger); producer != nil {
		_ = producer.Close()
		t.Fatal("expected nil producer for unreachable broker")
	}
}
