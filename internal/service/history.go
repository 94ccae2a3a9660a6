package service

import (
	"context"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
)

// HistoryService serves a user's attempt history with aggregate stats.
// History is user-only; guest sessions have no durable history surface.
type HistoryService interface {
	GetHistory(ctx context.Context, userID string, filter domain.AttemptHistoryFilter) (*dto.HistoryResponse, error)
}

type historyService struct {
	attemptRepo domain.AttemptRepository
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(attemptRepo domain.AttemptRepository) HistoryService {
	return &historyService{attemptRepo: attemptRepo}
}

func (s *historyService) GetHistory(ctx context.Context, userID string, filter domain.AttemptHistoryFilter) (*dto.HistoryResponse, error) {
	if userID == "" {
		return nil, domain.NewAuthRequiredError("Sign in to view your quiz history")
	}
	if filter.Limit <= 0 {
		filter.Limit = 15
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	attempts, total, err := s.attemptRepo.ListAttemptsByUser(ctx, userID, filter)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list attempts", err)
	}

	stats, err := s.attemptRepo.GetHistoryStats(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load history stats", err)
	}

	entries := make([]dto.AttemptHistoryEntry, len(attempts))
	for i, attempt := range attempts {
		entries[i] = dto.AttemptHistoryEntry{
			AttemptID:      attempt.ID,
			QuizID:         attempt.QuizID,
			Status:         string(attempt.Status),
			Score:          attempt.Score,
			Passed:         attempt.Passed,
			TotalQuestions: attempt.TotalQuestions,
			StartedAt:      attempt.StartedAt.Format(time.RFC3339),
		}
		if attempt.CompletedAt != nil {
			entries[i].CompletedAt = attempt.CompletedAt.Format(time.RFC3339)
		}
	}

	return &dto.HistoryResponse{
		Attempts: entries,
		Stats: dto.HistoryStats{
			TotalAttempts: stats.TotalAttempts,
			Completed:     stats.Completed,
			Passed:        stats.Passed,
			AverageScore:  stats.AverageScore,
		},
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}
