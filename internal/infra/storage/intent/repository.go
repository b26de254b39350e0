package intent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/pkg/psqlbuilder"
)

const (
	tableName = "submit_intents"

	// uniqueViolation код ошибки PostgreSQL unique_violation
	uniqueViolation = "23505"
)

// Repository репозиторий ключей идемпотентности отправки бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Reserve резервирует ключ перед отправкой бронирования в бэкенд.
// Если ключ уже есть у пользователя, возвращает ErrIntentExists.
func (r *Repository) Reserve(ctx context.Context, intent *domain.SubmitIntent) error {
	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"idempotency_key",
			"user_id",
			"car_id",
			"status",
		).
		Values(
			intent.Key,
			intent.UserID,
			intent.CarID,
			domain.IntentReserved,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reserve - build insert query: %v", ErrBuildQuery, err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&intent.CreatedAt, &intent.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrIntentExists
		}
		return fmt.Errorf("%w: Reserve - execute insert: %v", ErrExecQuery, err)
	}

	intent.Status = domain.IntentReserved
	return nil
}

// GetByKey получает ключ идемпотентности пользователя
func (r *Repository) GetByKey(ctx context.Context, userID, key string) (*domain.SubmitIntent, error) {
	query, args, err := psqlbuilder.Select(
		"idempotency_key",
		"user_id",
		"car_id",
		"booking_id",
		"status",
		"created_at",
		"updated_at",
	).
		From(tableName).
		Where(squirrel.Eq{"user_id": userID, "idempotency_key": key}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	var intent domain.SubmitIntent
	var bookingID sql.NullString

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&intent.Key,
		&intent.UserID,
		&intent.CarID,
		&bookingID,
		&intent.Status,
		&intent.CreatedAt,
		&intent.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan intent: %v", ErrScanRow, err)
	}

	if bookingID.Valid {
		intent.BookingID = &bookingID.String
	}

	return &intent, nil
}

// Complete привязывает созданное бронирование к ключу
func (r *Repository) Complete(ctx context.Context, userID, key, bookingID string) error {
	query, args, err := psqlbuilder.Update(tableName).
		Set("booking_id", bookingID).
		Set("status", domain.IntentCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "idempotency_key": key}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, "Complete", query, args)
}

// Release удаляет незавершенный ключ, чтобы повторная отправка была возможна
func (r *Repository) Release(ctx context.Context, userID, key string) error {
	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{
			"user_id":         userID,
			"idempotency_key": key,
			"status":          domain.IntentReserved,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, "Release", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, op, query string, args []interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrIntentNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
