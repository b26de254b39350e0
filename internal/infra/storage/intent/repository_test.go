package intent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

// Требует PostgreSQL с примененной миграцией: TEST_DATABASE_DSN=...
func TestRepository_Lifecycle(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	key := uuid.NewString()

	intent := &domain.SubmitIntent{Key: key, UserID: "u1", CarID: "c1"}
	require.NoError(t, repo.Reserve(ctx, intent))
	assert.Equal(t, domain.IntentReserved, intent.Status)

	err = repo.Reserve(ctx, &domain.SubmitIntent{Key: key, UserID: "u1", CarID: "c1"})
	assert.ErrorIs(t, err, ErrIntentExists)

	require.NoError(t, repo.Complete(ctx, "u1", key, "b1"))

	got, err := repo.GetByKey(ctx, "u1", key)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentCompleted, got.Status)
	require.NotNil(t, got.BookingID)
	assert.Equal(t, "b1", *got.BookingID)

	// Завершенный ключ не освобождается
	assert.ErrorIs(t, repo.Release(ctx, "u1", key), ErrIntentNotFound)

	_, err = repo.GetByKey(ctx, "u2", key)
	assert.ErrorIs(t, err, ErrIntentNotFound)
}
