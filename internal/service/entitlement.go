package service

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"

	"go.uber.org/zap"
)

// EntitlementService answers whether an actor may start a quiz. It has no
// side effects and is consulted at start time only; an attempt already in
// progress is never retroactively invalidated by a later subscription expiry.
type EntitlementService interface {
	// CanStart returns nil when the actor may start the quiz, or the
	// domain error describing why not.
	CanStart(ctx context.Context, actor domain.Actor, quiz *domain.Quiz) error
}

type entitlementService struct {
	attemptRepo domain.AttemptRepository
	billing     domain.BillingGateway
}

// NewEntitlementService creates an EntitlementService backed by the attempt
// history and the injected billing gateway.
func NewEntitlementService(attemptRepo domain.AttemptRepository, billing domain.BillingGateway) EntitlementService {
	return &entitlementService{
		attemptRepo: attemptRepo,
		billing:     billing,
	}
}

// CanStart evaluates the gate rules in order: active flag, premium access,
// then the completed-attempt limit.
func (s *entitlementService) CanStart(ctx context.Context, actor domain.Actor, quiz *domain.Quiz) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	// An inactive quiz does not exist from the actor's perspective.
	if !quiz.IsActive {
		return domain.NewQuizNotFoundError(quiz.ID)
	}

	if quiz.IsPremium() {
		if actor.IsGuest() {
			return domain.NewAuthRequiredError("Please sign in to access premium quizzes")
		}
		hasPremium, err := s.billing.HasActivePremium(ctx, actor.UserID())
		if err != nil {
			return domain.NewInternalError("Failed to check subscription status", err)
		}
		if !hasPremium {
			return domain.NewForbiddenError("This quiz requires a premium subscription")
		}
	}

	if quiz.MaxAttempts != nil {
		count, err := s.attemptRepo.CountCompletedAttempts(ctx, quiz.ID, actor)
		if err != nil {
			return domain.NewInternalError("Failed to count completed attempts", err)
		}
		if count >= *quiz.MaxAttempts {
			logger.Get().Info("Attempt limit reached",
				zap.String("quiz_id", quiz.ID),
				zap.Int("completed_attempts", count),
				zap.Int("max_attempts", *quiz.MaxAttempts),
			)
			return domain.NewForbiddenError("You have reached the maximum number of attempts for this quiz")
		}
	}

	return nil
}
