package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/orders/internal/health"
	"github.com/vladislavdragonenkov/orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orders/internal/service/orders"
	"github.com/vladislavdragonenkov/orders/internal/service/outbox"
	"github.com/vladislavdragonenkov/orders/internal/version"
)

// Config описывает настройки запуска приложения.
type Config struct {
	MetricsAddr    string
	PostgresDSN    string
	KafkaBrokers   string
	PaymentGroupID string
}

// DefaultConfig возвращает базовые настройки.
func DefaultConfig() Config {
	return Config{
		MetricsAddr:    ":9090",
		PaymentGroupID: "orders-service",
	}
}

// Run собирает зависимости и держит сервис до отмены ctx: хранилище,
// Kafka producer/consumer, outbox worker и HTTP для метрик и health.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	deps := NewDependencies(logger)

	store, err := initPostgresStorage(ctx, cfg.PostgresDSN, deps, logger)
	if err != nil {
		return err
	}
	defer func() {
		if store != nil {
			_ = store.Close()
		}
	}()

	service := orders.NewService(
		deps.Repo,
		deps.Validator,
		deps.OutboxRepo,
		deps.TimelineRepo,
		deps.Metrics,
		logger.WithField("layer", "service"),
	)

	// Kafka опционален: без брокеров события остаются в outbox.
	producer := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(producer, logger)

	var wg sync.WaitGroup
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	if producer != nil {
		publisher := kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents)
		dlqPublisher := kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue)
		worker := outbox.NewWorker(
			deps.OutboxRepo,
			publisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithDLQPublisher(dlqPublisher),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(workerCtx)
		}()
	}

	var paymentConsumer *kafka.Consumer
	if cfg.KafkaBrokers != "" && producer != nil {
		handler := kafka.NewPaymentHandler(service, logger.WithField("component", "payment-handler"))
		paymentConsumer, err = kafka.NewConsumerWithDLQ(
			strings.Split(cfg.KafkaBrokers, ","),
			cfg.PaymentGroupID,
			[]string{kafka.TopicPaymentEvents},
			handler,
			producer,
			3,
		)
		if err != nil {
			logger.WithError(err).Warn("failed to create payment consumer, continuing without it")
			paymentConsumer = nil
		} else if err := paymentConsumer.Start(workerCtx); err != nil {
			logger.WithError(err).Warn("failed to start payment consumer")
			paymentConsumer = nil
		}
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(checkCtx)
		}))
	}
	healthHandler.RegisterChecker("outbox", healthcheck.NewSimpleChecker("outbox", func() error {
		_, err := deps.OutboxRepo.Stats()
		return err
	}))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	logger.WithFields(log.Fields{
		"metrics_addr": cfg.MetricsAddr,
		"postgres":     cfg.PostgresDSN != "",
		"kafka":        producer != nil,
	}).Info("order service started")

	<-ctx.Done()
	logger.Info("получен сигнал остановки")

	stopWorkers()
	if paymentConsumer != nil {
		if err := paymentConsumer.Stop(); err != nil {
			logger.WithError(err).Warn("failed to stop payment consumer")
		}
	}
	wg.Wait()
	shutdownHTTP(metricsSrv, logger)

	return ctx.Err()
}

// startMetricsServer запускает HTTP-обработчики /metrics и health-проб.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
