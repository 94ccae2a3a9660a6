package service

import (
	"context"
	"errors"
	"time"

	"quizdeck/internal/cache"
	"quizdeck/internal/domain"
	"quizdeck/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const premiumStatusTTL = 5 * time.Minute

// subscriptionBillingGateway implements domain.BillingGateway from the
// subscription read model, with a short-lived cache in front. Concurrent
// lookups for the same user are collapsed through singleflight so a burst of
// start requests costs one subscription query.
type subscriptionBillingGateway struct {
	subscriptionRepo domain.SubscriptionRepository
	cache            domain.Cache
	group            singleflight.Group
}

// NewSubscriptionBillingGateway creates the billing gateway used for
// entitlement checks. The cache may be nil, in which case every lookup hits
// the repository.
func NewSubscriptionBillingGateway(subscriptionRepo domain.SubscriptionRepository, cacheAdapter domain.Cache) domain.BillingGateway {
	return &subscriptionBillingGateway{
		subscriptionRepo: subscriptionRepo,
		cache:            cacheAdapter,
	}
}

func (g *subscriptionBillingGateway) HasActivePremium(ctx context.Context, userID string) (bool, error) {
	key := cache.GenerateCacheKey("billing", "premium", userID)

	if g.cache != nil {
		val, err := g.cache.Get(ctx, key)
		if err == nil {
			return val == "1", nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Premium status cache read failed, falling back to repository",
				zap.Error(err),
				zap.String("user_id", userID),
			)
		}
	}

	result, err, _ := g.group.Do(userID, func() (interface{}, error) {
		active, err := g.subscriptionRepo.HasActiveSubscription(ctx, userID)
		if err != nil {
			return false, err
		}

		if g.cache != nil {
			val := "0"
			if active {
				val = "1"
			}
			if err := g.cache.Set(ctx, key, val, premiumStatusTTL); err != nil {
				logger.Get().Warn("Premium status cache write failed",
					zap.Error(err),
					zap.String("user_id", userID),
				)
			}
		}
		return active, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}
