package service

import (
	"context"
	"testing"

	"quizdeck/internal/domain"

	"github.com/stretchr/testify/assert"
)

func activeQuiz(quizType domain.QuizType) *domain.Quiz {
	return &domain.Quiz{
		ID:                "quiz-1",
		Title:             "Networking basics",
		Type:              quizType,
		PassingScore:      70,
		PointsPerQuestion: 1,
		IsActive:          true,
	}
}

func assertCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestEntitlementCanStart(t *testing.T) {
	ctx := context.Background()

	t.Run("free quiz open to guests", func(t *testing.T) {
		svc := NewEntitlementService(new(MockAttemptRepository), new(MockBillingGateway))
		err := svc.CanStart(ctx, domain.NewGuestActor("guest-1"), activeQuiz(domain.QuizTypeFree))
		assert.NoError(t, err)
	})

	t.Run("inactive quiz is not found", func(t *testing.T) {
		svc := NewEntitlementService(new(MockAttemptRepository), new(MockBillingGateway))
		quiz := activeQuiz(domain.QuizTypeFree)
		quiz.IsActive = false

		err := svc.CanStart(ctx, domain.NewUserActor("user-1"), quiz)
		assertCode(t, err, domain.CodeNotFound)
	})

	t.Run("guest on premium quiz needs authentication, not payment", func(t *testing.T) {
		billing := new(MockBillingGateway)
		svc := NewEntitlementService(new(MockAttemptRepository), billing)

		err := svc.CanStart(ctx, domain.NewGuestActor("guest-1"), activeQuiz(domain.QuizTypePremium))
		assertCode(t, err, domain.CodeAuthRequired)
		billing.AssertNotCalled(t, "HasActivePremium")
	})

	t.Run("user without subscription is forbidden from premium", func(t *testing.T) {
		billing := new(MockBillingGateway)
		billing.On("HasActivePremium", ctx, "user-1").Return(false, nil)
		svc := NewEntitlementService(new(MockAttemptRepository), billing)

		err := svc.CanStart(ctx, domain.NewUserActor("user-1"), activeQuiz(domain.QuizTypePremium))
		assertCode(t, err, domain.CodeForbidden)
	})

	t.Run("subscriber may start premium", func(t *testing.T) {
		billing := new(MockBillingGateway)
		billing.On("HasActivePremium", ctx, "user-1").Return(true, nil)
		svc := NewEntitlementService(new(MockAttemptRepository), billing)

		err := svc.CanStart(ctx, domain.NewUserActor("user-1"), activeQuiz(domain.QuizTypePremium))
		assert.NoError(t, err)
	})

	t.Run("completed attempts at the limit block a new start", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		actor := domain.NewUserActor("user-1")
		quiz := activeQuiz(domain.QuizTypeFree)
		quiz.MaxAttempts = intPtr(3)
		attemptRepo.On("CountCompletedAttempts", ctx, quiz.ID, actor).Return(3, nil)

		svc := NewEntitlementService(attemptRepo, new(MockBillingGateway))
		err := svc.CanStart(ctx, actor, quiz)
		assertCode(t, err, domain.CodeForbidden)
	})

	t.Run("in-progress and abandoned attempts never count against the limit", func(t *testing.T) {
		// The repository query counts completed attempts only, so two
		// abandoned runs leave the count at 2 of 3.
		attemptRepo := new(MockAttemptRepository)
		actor := domain.NewGuestActor("guest-1")
		quiz := activeQuiz(domain.QuizTypeFree)
		quiz.MaxAttempts = intPtr(3)
		attemptRepo.On("CountCompletedAttempts", ctx, quiz.ID, actor).Return(2, nil)

		svc := NewEntitlementService(attemptRepo, new(MockBillingGateway))
		err := svc.CanStart(ctx, actor, quiz)
		assert.NoError(t, err)
	})

	t.Run("nil max attempts means unlimited", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		svc := NewEntitlementService(attemptRepo, new(MockBillingGateway))

		err := svc.CanStart(ctx, domain.NewUserActor("user-1"), activeQuiz(domain.QuizTypeFree))
		assert.NoError(t, err)
		attemptRepo.AssertNotCalled(t, "CountCompletedAttempts")
	})

	t.Run("invalid actor is rejected", func(t *testing.T) {
		svc := NewEntitlementService(new(MockAttemptRepository), new(MockBillingGateway))
		err := svc.CanStart(ctx, domain.Actor{}, activeQuiz(domain.QuizTypeFree))
		assertCode(t, err, domain.CodeValidation)
	})
}
