package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tgstore/internal/entity"
	"tgstore/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const _uniqueViolationCode = "23505"

// Timestamps are stored as RFC 3339 text. Lexicographic ordering on the
// column matches chronological ordering for this format, which is what the
// listing query relies on.
const _timeLayout = time.RFC3339

var orderColumns = []string{
	"id",
	"status",
	"customer_name",
	"customer_telegram_user_id",
	"customer_telegram_chat_id",
	"payment_total",
	"delivery_method",
	"delivery_tracking_number",
	"verification_video_url",
	"verification_status",
	"notes",
	"created_at",
	"updated_at",
}

type OrderRepository struct {
	db *postgres.Postgres
}

func NewOrderRepository(db *postgres.Postgres) *OrderRepository {
	return &OrderRepository{db}
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	const op = "repository.order.Create"

	now := order.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var videoURL, verificationStatus string
	if order.Verification != nil {
		videoURL = order.Verification.VideoURL
		verificationStatus = order.Verification.Status
	}

	query := r.db.Builder.Insert("orders").
		Columns(orderColumns...).
		Values(
			order.ID,
			order.Status,
			order.Customer.Name,
			order.Customer.TelegramUserID,
			order.Customer.TelegramChatID,
			order.Payment.Total,
			order.Delivery.Method,
			order.Delivery.TrackingNumber,
			videoURL,
			verificationStatus,
			order.Notes,
			now.Format(_timeLayout),
			now.Format(_timeLayout),
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err = r.db.Pool.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == _uniqueViolationCode {
			return entity.ErrDuplicateOrder
		}
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	const op = "repository.order.GetByID"

	query := r.db.Builder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"id": id}).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	order, err := scanOrder(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrOrderNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return order, nil
}

func (r *OrderRepository) List(
	ctx context.Context,
	filter entity.OrderFilter,
) ([]*entity.Order, error) {
	const op = "repository.order.List"

	query := r.db.Builder.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.DeliveryMethod != "" {
		query = query.Where(squirrel.Eq{"delivery_method": filter.DeliveryMethod})
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, scanErr)
		}
		orders = append(orders, order)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, rows.Err())
	}

	return orders, nil
}

// UpdateVerification records a submitted video and flags the order for review
// in a single statement.
func (r *OrderRepository) UpdateVerification(
	ctx context.Context,
	id string,
	videoURL string,
) error {
	const op = "repository.order.UpdateVerification"

	query := r.db.Builder.Update("orders").
		Set("verification_video_url", videoURL).
		Set("verification_status", entity.VerificationStatusPending).
		Set("status", entity.StatusVerificationPending).
		Set("updated_at", time.Now().UTC().Format(_timeLayout)).
		Where(squirrel.Eq{"id": id})

	return r.execUpdate(ctx, op, query)
}

// UpdateStatus overwrites the order status. Tracking number and notes are
// written only when supplied; empty strings leave the stored values intact.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	update entity.StatusUpdate,
) error {
	const op = "repository.order.UpdateStatus"

	query := r.db.Builder.Update("orders").
		Set("status", update.Status).
		Set("updated_at", time.Now().UTC().Format(_timeLayout)).
		Where(squirrel.Eq{"id": id})

	if update.TrackingNumber != "" {
		query = query.Set("delivery_tracking_number", update.TrackingNumber)
	}
	if update.Notes != "" {
		query = query.Set("notes", update.Notes)
	}

	return r.execUpdate(ctx, op, query)
}

func (r *OrderRepository) StatsByStatus(ctx context.Context) ([]entity.StatusGroup, error) {
	const op = "repository.order.StatsByStatus"

	query := r.db.Builder.
		Select("status", "COUNT(*)", "COALESCE(SUM(payment_total), 0)").
		From("orders").
		GroupBy("status")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var groups []entity.StatusGroup
	for rows.Next() {
		var group entity.StatusGroup
		if err = rows.Scan(&group.Status, &group.Count, &group.Total); err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		groups = append(groups, group)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, rows.Err())
	}

	return groups, nil
}

func (r *OrderRepository) execUpdate(
	ctx context.Context,
	op string,
	query squirrel.UpdateBuilder,
) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrOrderNotFound
	}

	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		order              entity.Order
		customer           entity.Customer
		payment            entity.Payment
		delivery           entity.Delivery
		videoURL           string
		verificationStatus string
		createdAt          string
		updatedAt          string
	)

	err := row.Scan(
		&order.ID,
		&order.Status,
		&customer.Name,
		&customer.TelegramUserID,
		&customer.TelegramChatID,
		&payment.Total,
		&delivery.Method,
		&delivery.TrackingNumber,
		&videoURL,
		&verificationStatus,
		&order.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Customer = &customer
	order.Payment = &payment
	order.Delivery = &delivery
	if videoURL != "" || verificationStatus != "" {
		order.Verification = &entity.Verification{
			VideoURL: videoURL,
			Status:   verificationStatus,
		}
	}

	if order.CreatedAt, err = time.Parse(_timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if order.UpdatedAt, err = time.Parse(_timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}

	return &order, nil
}
