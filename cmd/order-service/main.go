package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/app"
)

const (
	envLogLevel       = "ORDERS_LOG_LEVEL"
	envMetricsAddr    = "ORDERS_METRICS_ADDR"
	envPostgresDSN    = "ORDERS_POSTGRES_DSN"
	envKafkaBrokers   = "ORDERS_KAFKA_BROKERS"
	envPaymentGroupID = "ORDERS_PAYMENT_GROUP_ID"
)

// lookupFunc абстрагирует os.LookupEnv для тестируемости.
type lookupFunc func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(lookup lookupFunc) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	if raw, ok := lookup(envLogLevel); ok {
		if level, err := log.ParseLevel(strings.TrimSpace(raw)); err == nil {
			log.SetLevel(level)
		} else {
			log.WithField("value", raw).Warn("unknown log level, using info")
		}
	}
}

// readConfigFromEnv формирует конфигурацию приложения из переменных окружения.
func readConfigFromEnv(lookup lookupFunc) app.Config {
	cfg := app.DefaultConfig()

	if v, ok := lookup(envMetricsAddr); ok && strings.TrimSpace(v) != "" {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPostgresDSN); ok && strings.TrimSpace(v) != "" {
		cfg.PostgresDSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(envKafkaBrokers); ok && strings.TrimSpace(v) != "" {
		cfg.KafkaBrokers = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPaymentGroupID); ok && strings.TrimSpace(v) != "" {
		cfg.PaymentGroupID = strings.TrimSpace(v)
	}

	return cfg
}

func main() {
	setupLogger(os.LookupEnv)
	cfg := readConfigFromEnv(os.LookupEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"metrics_addr": cfg.MetricsAddr,
		"postgres":     cfg.PostgresDSN != "",
		"kafka":        cfg.KafkaBrokers != "",
	}).Info("запускаем сервис заказов")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("сервис заказов остановлен")
}
