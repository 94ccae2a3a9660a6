package service

import (
	"context"
	"testing"
	"time"

	"quizdeck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("listing maps quizzes with question counts", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		quiz := activeQuiz(domain.QuizTypeFree)
		quizRepo.On("ListActiveQuizzes", ctx, domain.QuizListFilter{Limit: 12}).Return([]*domain.Quiz{quiz}, 1, nil)
		quizRepo.On("CountActiveQuestions", ctx, quiz.ID).Return(8, nil)

		svc := NewCatalogService(quizRepo, new(MockAttemptRepository), NewEntitlementService(new(MockAttemptRepository), new(MockBillingGateway)), new(MockBillingGateway))
		resp, err := svc.ListQuizzes(ctx, domain.QuizListFilter{})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
		assert.Len(t, resp.Quizzes, 1)
		assert.Equal(t, 8, resp.Quizzes[0].TotalQuestions)
	})

	t.Run("detail explains why the actor cannot start", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		attemptRepo := new(MockAttemptRepository)
		quiz := activeQuiz(domain.QuizTypePremium)
		quizRepo.On("GetQuizByID", ctx, quiz.ID).Return(quiz, nil)
		quizRepo.On("CountActiveQuestions", ctx, quiz.ID).Return(5, nil)
		attemptRepo.On("GetLatestAttempt", ctx, quiz.ID, mock.Anything).Return(nil, nil)

		svc := NewCatalogService(quizRepo, attemptRepo, NewEntitlementService(new(MockAttemptRepository), new(MockBillingGateway)), new(MockBillingGateway))
		detail, err := svc.GetQuiz(ctx, domain.NewGuestActor("guest-1"), quiz.ID)

		assert.NoError(t, err)
		assert.False(t, detail.CanStart)
		assert.NotEmpty(t, detail.CanStartReason)
		assert.Nil(t, detail.LastAttempt)
	})

	t.Run("detail reports subscription status for users on premium quizzes", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		attemptRepo := new(MockAttemptRepository)
		billing := new(MockBillingGateway)
		quiz := activeQuiz(domain.QuizTypePremium)
		quizRepo.On("GetQuizByID", ctx, quiz.ID).Return(quiz, nil)
		quizRepo.On("CountActiveQuestions", ctx, quiz.ID).Return(5, nil)
		attemptRepo.On("GetLatestAttempt", ctx, quiz.ID, mock.Anything).Return(nil, nil)
		billing.On("HasActivePremium", ctx, "user-1").Return(true, nil)

		svc := NewCatalogService(quizRepo, attemptRepo, NewEntitlementService(new(MockAttemptRepository), billing), billing)
		detail, err := svc.GetQuiz(ctx, domain.NewUserActor("user-1"), quiz.ID)

		assert.NoError(t, err)
		assert.True(t, detail.HasActiveSubscription)
		assert.True(t, detail.CanStart)
	})

	t.Run("detail includes the actor's most recent attempt", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		attemptRepo := new(MockAttemptRepository)
		quiz := activeQuiz(domain.QuizTypeFree)
		completedAt := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
		last := &domain.QuizAttempt{
			ID:             "attempt-9",
			QuizID:         quiz.ID,
			UserID:         "user-1",
			Status:         domain.AttemptCompleted,
			Score:          80.0,
			Passed:         true,
			TotalQuestions: 10,
			StartedAt:      completedAt.Add(-15 * time.Minute),
			CompletedAt:    &completedAt,
		}
		quizRepo.On("GetQuizByID", ctx, quiz.ID).Return(quiz, nil)
		quizRepo.On("CountActiveQuestions", ctx, quiz.ID).Return(10, nil)
		attemptRepo.On("GetLatestAttempt", ctx, quiz.ID, mock.Anything).Return(last, nil)

		svc := NewCatalogService(quizRepo, attemptRepo, NewEntitlementService(new(MockAttemptRepository), new(MockBillingGateway)), new(MockBillingGateway))
		detail, err := svc.GetQuiz(ctx, domain.NewUserActor("user-1"), quiz.ID)

		assert.NoError(t, err)
		if assert.NotNil(t, detail.LastAttempt) {
			assert.Equal(t, "attempt-9", detail.LastAttempt.AttemptID)
			assert.Equal(t, "completed", detail.LastAttempt.Status)
			assert.Equal(t, 80.0, detail.LastAttempt.Score)
			assert.NotEmpty(t, detail.LastAttempt.CompletedAt)
		}
	})

	t.Run("inactive quiz detail is not found", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		quiz := activeQuiz(domain.QuizTypeFree)
		quiz.IsActive = false
		quizRepo.On("GetQuizByID", ctx, quiz.ID).Return(quiz, nil)

		svc := NewCatalogService(quizRepo, new(MockAttemptRepository), NewEntitlementService(new(MockAttemptRepository), new(MockBillingGateway)), new(MockBillingGateway))
		_, err := svc.GetQuiz(ctx, domain.NewUserActor("user-1"), quiz.ID)

		assertCode(t, err, domain.CodeNotFound)
	})
}
