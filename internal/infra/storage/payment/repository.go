package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/pkg/psqlbuilder"
)

const tableName = "payment_events"

// Repository журнал смен статуса оплаты.
// Записи только добавляются, обновлений и удалений нет.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала оплат
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет событие в журнал
func (r *Repository) Append(ctx context.Context, event *domain.PaymentEvent) error {
	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"booking_id",
			"user_id",
			"status",
			"source",
			"message",
		).
		Values(
			event.BookingID,
			event.UserID,
			event.Status,
			event.Source,
			event.Message,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByBooking возвращает события бронирования в порядке записи
func (r *Repository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.PaymentEvent, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"user_id",
		"status",
		"source",
		"message",
		"created_at",
	).
		From(tableName).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.PaymentEvent, 0)
	for rows.Next() {
		var event domain.PaymentEvent
		var message sql.NullString

		if err := rows.Scan(
			&event.ID,
			&event.BookingID,
			&event.UserID,
			&event.Status,
			&event.Source,
			&message,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan event: %v", ErrScanRow, err)
		}

		if message.Valid {
			event.Message = &message.String
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}
