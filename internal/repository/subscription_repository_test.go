package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func TestHasActiveSubscription(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	defer db.Close()
	repo := NewSQLXSubscriptionRepository(db)

	t.Run("active unexpired subscription counts", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM user_subscriptions WHERE user_id = .+ AND status = 'active' AND ends_at >`).
			WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))

		active, err := repo.HasActiveSubscription(context.Background(), "user1")
		assert.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("expired or cancelled rows do not count", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM user_subscriptions`).
			WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))

		active, err := repo.HasActiveSubscription(context.Background(), "user1")
		assert.NoError(t, err)
		assert.False(t, active)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
