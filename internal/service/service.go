package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tgstore/internal/entity"
	"tgstore/pkg/cache"
	"tgstore/pkg/logger"
)

const (
	_defaultContextTimeout = 500 * time.Millisecond
	_slowOpThreshold       = 200 * time.Millisecond
)

type (
	OrderRepository interface {
		Create(ctx context.Context, order *entity.Order) error
		GetByID(ctx context.Context, id string) (*entity.Order, error)
		List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error)
		UpdateVerification(ctx context.Context, id, videoURL string) error
		UpdateStatus(ctx context.Context, id string, update entity.StatusUpdate) error
		StatsByStatus(ctx context.Context) ([]entity.StatusGroup, error)
	}

	// Notifier is the outbound messaging side channel. Every call reports a
	// boolean: delivery failures are logged by the implementation and never
	// propagate into the triggering operation.
	Notifier interface {
		SendOrderConfirmation(ctx context.Context, chatID int64, orderID string, total float64) bool
		SendOrderStatusUpdate(ctx context.Context, chatID int64, orderID, status, trackingNumber string) bool
		SendVerificationReminder(ctx context.Context, chatID int64, orderID string) bool
		NotifyAdminNewOrder(ctx context.Context, order *entity.Order) bool
		NotifyAdminVerificationSubmitted(ctx context.Context, orderID, customerName string) bool
	}

	OrderService struct {
		repo     OrderRepository
		notifier Notifier
		logger   logger.Logger
		cache    cache.Cache[string, *entity.Order]
		cacheTTL time.Duration
	}
)

func NewOrderService(
	repo OrderRepository,
	notifier Notifier,
	log logger.Logger,
	orderCache cache.Cache[string, *entity.Order],
	cacheTTL time.Duration,
) *OrderService {
	return &OrderService{
		repo:     repo,
		notifier: notifier,
		logger:   log,
		cache:    orderCache,
		cacheTTL: cacheTTL,
	}
}

// SubmitVerification attaches a verification video to the order and flags it
// for admin review. The caller id comes from the verified Telegram web-app
// payload; the ownership check only fires when both the stored owner id and
// the caller id are present.
func (s *OrderService) SubmitVerification(
	ctx context.Context,
	orderID string,
	callerID int64,
	videoURL string,
) error {
	const op = "service.SubmitVerification"
	log := s.logger.Ctx(ctx)

	if videoURL == "" {
		return fmt.Errorf("%s: empty video url: %w", op, entity.ErrInvalidData)
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%s: get order: %w", op, err)
	}

	ownerID := order.Customer.TelegramUserID
	if ownerID != 0 && callerID != 0 && ownerID != callerID {
		log.Warnw("verification submission rejected",
			"op", op,
			"order_id", orderID,
			"caller_id", callerID,
		)
		return fmt.Errorf("%s: owner mismatch: %w", op, entity.ErrNotAuthorized)
	}

	if err = s.repo.UpdateVerification(ctx, orderID, videoURL); err != nil {
		return fmt.Errorf("%s: update verification: %w", op, err)
	}
	s.cache.Remove(orderID)

	if delivered := s.notifier.NotifyAdminVerificationSubmitted(ctx, orderID, order.Customer.Name); !delivered {
		log.Warnw("admin verification notification not delivered",
			"op", op,
			"order_id", orderID,
		)
	}

	log.Infow("verification submitted",
		"op", op,
		"order_id", orderID,
	)

	return nil
}

func (s *OrderService) ListOrders(
	ctx context.Context,
	filter entity.OrderFilter,
) ([]*entity.Order, error) {
	const op = "service.ListOrders"

	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: list orders: %w", op, err)
	}

	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	const op = "service.GetOrder"
	log := s.logger.Ctx(ctx)

	startTime := time.Now()
	defer func() {
		if duration := time.Since(startTime); duration > _slowOpThreshold {
			log.Warnw("slow service operation",
				"op", op,
				"order_id", orderID,
				"duration", duration.String(),
			)
		}
	}()

	if cached, found := s.cache.Get(orderID); found {
		log.Debugw("order served from cache",
			"op", op,
			"order_id", orderID,
		)
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, _defaultContextTimeout)
	defer cancel()

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, entity.ErrOrderNotFound) {
			log.Errorw("failed to get order",
				"op", op,
				"order_id", orderID,
				"error", err,
			)
		}
		return nil, fmt.Errorf("%s: get order: %w", op, err)
	}

	s.cache.Put(orderID, order, s.cacheTTL)

	return order, nil
}

// UpdateOrderStatus overwrites the order status and notifies the customer.
// Empty tracking number and notes leave the stored values untouched. When the
// customer has no resolvable chat target the notification is skipped without
// being treated as an error.
func (s *OrderService) UpdateOrderStatus(
	ctx context.Context,
	orderID string,
	update entity.StatusUpdate,
) error {
	const op = "service.UpdateOrderStatus"
	log := s.logger.Ctx(ctx)

	if update.Status == "" {
		return fmt.Errorf("%s: empty status: %w", op, entity.ErrInvalidData)
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%s: get order: %w", op, err)
	}

	if err = s.repo.UpdateStatus(ctx, orderID, update); err != nil {
		return fmt.Errorf("%s: update status: %w", op, err)
	}
	s.cache.Remove(orderID)

	chatID := order.ChatTarget()
	if chatID == 0 {
		log.Debugw("customer has no chat target, skipping status notification",
			"op", op,
			"order_id", orderID,
		)
		return nil
	}

	if delivered := s.notifier.SendOrderStatusUpdate(ctx, chatID, orderID, update.Status, update.TrackingNumber); !delivered {
		log.Warnw("status notification not delivered",
			"op", op,
			"order_id", orderID,
			"status", update.Status,
		)
	}

	log.Infow("order status updated",
		"op", op,
		"order_id", orderID,
		"status", update.Status,
	)

	return nil
}

// OrderStats folds the store's group-by-status aggregation into per-status
// buckets plus grand totals.
func (s *OrderService) OrderStats(ctx context.Context) (*entity.OrderStats, error) {
	const op = "service.OrderStats"

	groups, err := s.repo.StatsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: stats by status: %w", op, err)
	}

	stats := &entity.OrderStats{
		ByStatus: make(map[string]entity.StatusBucket, len(groups)),
	}
	for _, group := range groups {
		stats.ByStatus[group.Status] = entity.StatusBucket{
			Count: group.Count,
			Total: group.Total,
		}
		stats.TotalOrders += group.Count
		stats.TotalRevenue += group.Total
	}

	return stats, nil
}

// RegisterOrder persists an order received from the upstream checkout flow
// and fires the welcome notifications. Duplicate ids are reported as
// entity.ErrDuplicateOrder so the intake can skip redeliveries.
func (s *OrderService) RegisterOrder(ctx context.Context, order *entity.Order) error {
	const op = "service.RegisterOrder"
	log := s.logger.Ctx(ctx)

	if err := s.validateOrder(order); err != nil {
		return fmt.Errorf("%s: validate order: %w", op, err)
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return fmt.Errorf("%s: create order: %w", op, err)
	}

	log.Infow("order registered",
		"op", op,
		"order_id", order.ID,
		"status", order.Status,
	)

	if chatID := order.ChatTarget(); chatID != 0 {
		if delivered := s.notifier.SendOrderConfirmation(ctx, chatID, order.ID, order.Payment.Total); !delivered {
			log.Warnw("order confirmation not delivered",
				"op", op,
				"order_id", order.ID,
			)
		}
		if order.Status == entity.StatusVerificationPending {
			s.notifier.SendVerificationReminder(ctx, chatID, order.ID)
		}
	}

	if delivered := s.notifier.NotifyAdminNewOrder(ctx, order); !delivered {
		log.Warnw("admin new-order notification not delivered",
			"op", op,
			"order_id", order.ID,
		)
	}

	return nil
}

func (s *OrderService) validateOrder(order *entity.Order) error {
	if order.ID == "" {
		return entity.ErrInvalidData
	}
	if order.Customer == nil {
		return entity.ErrInvalidData
	}
	if order.Payment == nil {
		return entity.ErrInvalidData
	}
	if order.Delivery == nil {
		return entity.ErrInvalidData
	}
	if order.Status == "" {
		return entity.ErrInvalidData
	}
	return nil
}
