package repository

import (
	"context"
	"fmt"
	"time"

	"quizdeck/internal/domain"

	"github.com/jmoiron/sqlx"
)

// sqlxSubscriptionRepository is the read model behind the billing gateway.
// Subscription writes happen in the billing service.
type sqlxSubscriptionRepository struct {
	db *sqlx.DB
}

// NewSQLXSubscriptionRepository creates a new instance of sqlxSubscriptionRepository.
func NewSQLXSubscriptionRepository(db *sqlx.DB) domain.SubscriptionRepository {
	return &sqlxSubscriptionRepository{db: db}
}

// HasActiveSubscription reports whether the user holds an active subscription
// that has not yet reached its end date.
func (r *sqlxSubscriptionRepository) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_subscriptions WHERE user_id = :1 AND status = 'active' AND ends_at > :2`

	if err := r.db.GetContext(ctx, &count, query, userID, time.Now()); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return count > 0, nil
}
