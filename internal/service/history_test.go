package service

import (
	"context"
	"testing"
	"time"

	"quizdeck/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestHistoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a signed-in user", func(t *testing.T) {
		svc := NewHistoryService(new(MockAttemptRepository))
		_, err := svc.GetHistory(ctx, "", domain.AttemptHistoryFilter{})
		assertCode(t, err, domain.CodeAuthRequired)
	})

	t.Run("returns attempts with aggregate stats", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		completedAt := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
		attempts := []domain.QuizAttempt{
			{
				ID:             "att-1",
				QuizID:         "quiz-1",
				UserID:         "user-1",
				Status:         domain.AttemptCompleted,
				Score:          85,
				Passed:         true,
				TotalQuestions: 10,
				StartedAt:      completedAt.Add(-time.Hour),
				CompletedAt:    &completedAt,
			},
		}
		filter := domain.AttemptHistoryFilter{Limit: 15}
		attemptRepo.On("ListAttemptsByUser", ctx, "user-1", filter).Return(attempts, 1, nil)
		attemptRepo.On("GetHistoryStats", ctx, "user-1").Return(&domain.AttemptHistoryStats{
			TotalAttempts: 4,
			Completed:     3,
			Passed:        2,
			AverageScore:  71.5,
		}, nil)

		svc := NewHistoryService(attemptRepo)
		resp, err := svc.GetHistory(ctx, "user-1", domain.AttemptHistoryFilter{})

		assert.NoError(t, err)
		assert.Len(t, resp.Attempts, 1)
		assert.Equal(t, "att-1", resp.Attempts[0].AttemptID)
		assert.Equal(t, completedAt.Format(time.RFC3339), resp.Attempts[0].CompletedAt)
		assert.Equal(t, 71.5, resp.Stats.AverageScore)
		assert.Equal(t, 1, resp.Total)
	})
}
