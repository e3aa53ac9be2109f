package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
)

const (
	timelineEventOrderCreated       = "OrderCreated"
	timelineEventOrderStatusChanged = "OrderStatusChanged"
	timelineEventOrderPaid          = "OrderPaid"

	eventTypeOrderCreated       = "order.created"
	eventTypeOrderStatusChanged = "order.status_changed"
	eventTypeOrderPaid          = "order.paid"

	aggregateTypeOrder = "order"
)

// CreateOrderRequest — входные данные создания заказа. Цены клиент не
// передаёт: они резолвятся через удалённую валидацию.
type CreateOrderRequest struct {
	Items []domain.OrderItemRequest
}

// Service реализует операции с заказами поверх доменного репозитория,
// удалённого валидатора продуктов и побочных каналов (timeline, outbox).
// Ошибки наружу отдаются как gRPC status — это контракт для любого
// транспорта, смонтированного сверху.
type Service struct {
	repo      domain.OrderRepository
	validator domain.ProductValidator
	outbox    domain.OutboxRepository
	timeline  domain.TimelineRepository
	metrics   *metrics.OrderMetrics
	logger    *log.Entry

	defaultPageLimit int
}

// NewService конструирует сервис с зависимостями. Outbox, timeline и
// metrics опциональны: при nil соответствующий побочный канал отключён.
func NewService(
	repo domain.OrderRepository,
	validator domain.ProductValidator,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	orderMetrics *metrics.OrderMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:             repo,
		validator:        validator,
		outbox:           outbox,
		timeline:         timeline,
		metrics:          orderMetrics,
		logger:           logger,
		defaultPageLimit: domain.DefaultPageLimit,
	}
}

// WithDefaultPageLimit меняет дефолтный limit листинга.
func (s *Service) WithDefaultPageLimit(limit int) *Service {
	if limit > 0 {
		s.defaultPageLimit = limit
	}
	return s
}

// CreateOrder создаёт заказ: валидирует товары удалённо, считает тоталы,
// атомарно сохраняет заказ с позициями и возвращает обогащённое
// представление.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderView, error) {
	started := time.Now()

	if len(req.Items) == 0 {
		return nil, status.Error(codes.InvalidArgument, domain.ErrItemsRequired.Error())
	}
	for idx, item := range req.Items {
		if item.ProductID == "" {
			return nil, status.Errorf(codes.InvalidArgument, "item[%d].product_id is required", idx)
		}
		if item.Qty <= 0 {
			return nil, status.Errorf(codes.InvalidArgument, "item[%d].qty must be > 0", idx)
		}
	}

	snapshots, err := s.validateProducts(ctx, domain.ProductIDs(req.Items))
	if err != nil {
		s.recordCreateFailed("validation")
		return nil, err
	}

	now := time.Now().UTC()
	order, err := domain.BuildOrder(req.Items, snapshots, now)
	if err != nil {
		if domain.IsProductNotFound(err) {
			s.recordCreateFailed("product_not_found")
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	order.ID = uuid.NewString()
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return nil, status.Error(codes.Internal, joinErrors(errs))
	}

	if err := s.repo.Create(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to create order")
		s.recordCreateFailed("persistence")
		switch {
		case errors.Is(err, domain.ErrOrderAlreadyExists):
			return nil, status.Error(codes.AlreadyExists, err.Error())
		default:
			return nil, status.Error(codes.Internal, "failed to persist order")
		}
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
		s.metrics.RecordCreateDuration(time.Since(started))
	}

	s.appendTimeline(order.ID, timelineEventOrderCreated, string(order.Status), now)
	s.enqueueOrderEvent(eventTypeOrderCreated, order)

	return DecorateOrder(order, domain.IndexSnapshots(snapshots)), nil
}

// GetOrder возвращает заказ с позициями, именами товаров и таймлайном.
// Имена резолвятся живым вызовом валидации на каждое чтение.
func (s *Service) GetOrder(ctx context.Context, id string) (*OrderView, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "order id is required")
	}

	order, index, err := s.loadValidated(ctx, id)
	if err != nil {
		return nil, err
	}

	view := DecorateOrder(order, index)
	view.Timeline = s.loadTimeline(order.ID)
	return view, nil
}

// ListOrders возвращает страницу заказов с опциональным фильтром по статусу.
// Листинг отдаёт сырые строки без обогащения именами.
func (s *Service) ListOrders(_ context.Context, p domain.Pagination) (domain.OrderPage, error) {
	if p.Status != nil {
		if _, ok := domain.ParseOrderStatus(string(*p.Status)); !ok {
			return domain.OrderPage{}, status.Errorf(codes.InvalidArgument, "unknown status filter: %s", *p.Status)
		}
	}

	page, err := s.repo.List(p.Normalize(s.defaultPageLimit))
	if err != nil {
		s.logger.WithError(err).Error("failed to list orders")
		return domain.OrderPage{}, status.Error(codes.Internal, "failed to list orders")
	}
	return page, nil
}

// ChangeStatus меняет статус заказа. Запрос того же статуса — идемпотентный
// no-op, возвращающий уже загруженное представление. Переходы ограничены
// конечной таблицей; нелегальный переход — FailedPrecondition.
func (s *Service) ChangeStatus(ctx context.Context, id string, target domain.OrderStatus) (*OrderView, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "order id is required")
	}
	if _, ok := domain.ParseOrderStatus(string(target)); !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown status: %s", target)
	}

	order, index, err := s.loadValidated(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == target {
		view := DecorateOrder(order, index)
		view.Timeline = s.loadTimeline(order.ID)
		return view, nil
	}

	if !order.Status.CanTransitionTo(target) {
		transitionErr := &domain.StatusTransitionError{From: order.Status, To: target}
		return nil, status.Error(codes.FailedPrecondition, transitionErr.Error())
	}

	updated, err := s.repo.UpdateStatus(id, target)
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": id,
			"status":   target,
		}).Error("failed to update order status")
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return nil, orderNotFound(id)
		default:
			return nil, status.Error(codes.Internal, "failed to update order status")
		}
	}

	if s.metrics != nil {
		s.metrics.RecordStatusChange(string(target))
	}
	s.appendTimeline(updated.ID, timelineEventOrderStatusChanged, string(target), updated.UpdatedAt)
	s.enqueueOrderEvent(eventTypeOrderStatusChanged, updated)

	view := DecorateOrder(updated, index)
	view.Timeline = s.loadTimeline(updated.ID)
	return view, nil
}

// MarkPaid применяет подтверждение оплаты к заказу и переводит его в
// delivered, если переход из текущего статуса разрешён. Вызывается
// обработчиком событий платёжного сервиса.
func (s *Service) MarkPaid(_ context.Context, id string, payment domain.PaymentInfo) error {
	if id == "" {
		return status.Error(codes.InvalidArgument, "order id is required")
	}

	updated, err := s.repo.MarkPaid(id, payment)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Warn("failed to mark order as paid")
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return orderNotFound(id)
		default:
			return status.Error(codes.Internal, "failed to mark order as paid")
		}
	}

	if s.metrics != nil {
		s.metrics.RecordOrderPaid()
	}
	s.appendTimeline(updated.ID, timelineEventOrderPaid, payment.ChargeID, updated.UpdatedAt)
	s.enqueueOrderEvent(eventTypeOrderPaid, updated)

	// Оплаченный заказ считается выполненным. Терминальные статусы
	// (cancelled, повторная оплата delivered) не трогаем.
	if updated.Status.CanTransitionTo(domain.OrderStatusDelivered) {
		delivered, err := s.repo.UpdateStatus(id, domain.OrderStatusDelivered)
		if err != nil {
			s.logger.WithError(err).WithField("order_id", id).Error("failed to deliver paid order")
			return status.Error(codes.Internal, "failed to update order status")
		}
		if s.metrics != nil {
			s.metrics.RecordStatusChange(string(domain.OrderStatusDelivered))
		}
		s.appendTimeline(delivered.ID, timelineEventOrderStatusChanged, string(domain.OrderStatusDelivered), delivered.UpdatedAt)
		s.enqueueOrderEvent(eventTypeOrderStatusChanged, delivered)
	}

	return nil
}

// loadValidated — полный путь чтения: заказ из хранилища плюс живое
// разрешение снапшотов для его позиций.
func (s *Service) loadValidated(ctx context.Context, id string) (domain.Order, domain.SnapshotIndex, error) {
	order, err := s.repo.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return domain.Order{}, nil, orderNotFound(id)
		default:
			s.logger.WithError(err).WithField("order_id", id).Error("failed to load order")
			return domain.Order{}, nil, status.Error(codes.Internal, "failed to load order")
		}
	}

	snapshots, err := s.validateProducts(ctx, domain.ItemProductIDs(order.Items))
	if err != nil {
		return domain.Order{}, nil, err
	}

	return order, domain.IndexSnapshots(snapshots), nil
}

// validateProducts вызывает удалённую валидацию и пробрасывает её
// статус/сообщение дословно. Retry здесь не выполняется.
func (s *Service) validateProducts(ctx context.Context, productIDs []string) ([]domain.ProductSnapshot, error) {
	started := time.Now()
	snapshots, err := s.validator.Validate(ctx, productIDs)
	if s.metrics != nil {
		s.metrics.RecordValidationDuration(time.Since(started))
	}
	if err == nil {
		return snapshots, nil
	}

	var remoteErr *domain.RemoteValidationError
	if errors.As(err, &remoteErr) {
		s.logger.WithError(err).Warn("product validation rejected by remote service")
		return nil, status.Error(codeFromRemoteStatus(remoteErr.StatusCode), remoteErr.Message)
	}

	s.logger.WithError(err).Error("product validation call failed")
	return nil, status.Error(codes.Unavailable, "product validation failed")
}

func (s *Service) appendTimeline(orderID, eventType, reason string, occurred time.Time) {
	if s.timeline == nil {
		return
	}
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: occurred,
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("failed to append timeline event")
	}
}

func (s *Service) loadTimeline(orderID string) []TimelineEventView {
	if s.timeline == nil {
		return nil
	}
	events, err := s.timeline.List(orderID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("failed to list timeline events")
		return nil
	}
	return toTimelineViews(events)
}

// orderEventPayload — содержимое события заказа в outbox.
type orderEventPayload struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	AmountMinor int64     `json:"amount_minor"`
	ItemCount   int32     `json:"item_count"`
	Paid        bool      `json:"paid"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (s *Service) enqueueOrderEvent(eventType string, order domain.Order) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(orderEventPayload{
		OrderID:     order.ID,
		Status:      string(order.Status),
		AmountMinor: order.AmountMinor,
		ItemCount:   order.ItemCount,
		Paid:        order.Paid,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal order event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateTypeOrder,
		AggregateID:   order.ID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"event_type": eventType,
		}).Warn("failed to enqueue order event")
	}
}

func (s *Service) recordCreateFailed(reason string) {
	if s.metrics != nil {
		s.metrics.RecordOrderCreateFailed(reason)
	}
}

func orderNotFound(id string) error {
	return status.Error(codes.NotFound, fmt.Sprintf("order with id %s not found", id))
}

// codeFromRemoteStatus переводит HTTP-подобный статус удалённого сервиса
// в gRPC-код, не трогая текст сообщения.
func codeFromRemoteStatus(statusCode int) codes.Code {
	switch statusCode {
	case 400:
		return codes.InvalidArgument
	case 404:
		return codes.NotFound
	case 409:
		return codes.Aborted
	case 429:
		return codes.ResourceExhausted
	case 504:
		return codes.DeadlineExceeded
	default:
		return codes.Unavailable
	}
}

func joinErrors(errs []error) string {
	builder := strings.Builder{}
	for i, err := range errs {
		builder.WriteString(err.Error())
		if i < len(errs)-1 {
			builder.WriteString("; ")
		}
	}
	return builder.String()
}
