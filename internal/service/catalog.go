package service

import (
	"context"
	"errors"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
)

// CatalogService serves the public quiz catalog: the listing and the detail
// page with what the current actor may do with the quiz. It is a read-only
// collaborator of the attempt engine.
type CatalogService interface {
	ListQuizzes(ctx context.Context, filter domain.QuizListFilter) (*dto.QuizListResponse, error)
	GetQuiz(ctx context.Context, actor domain.Actor, quizID string) (*dto.QuizDetailResponse, error)
}

type catalogService struct {
	quizRepo    domain.QuizRepository
	attemptRepo domain.AttemptRepository
	entitlement EntitlementService
	billing     domain.BillingGateway
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(quizRepo domain.QuizRepository, attemptRepo domain.AttemptRepository, entitlement EntitlementService, billing domain.BillingGateway) CatalogService {
	return &catalogService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		entitlement: entitlement,
		billing:     billing,
	}
}

func (s *catalogService) ListQuizzes(ctx context.Context, filter domain.QuizListFilter) (*dto.QuizListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 12
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	quizzes, total, err := s.quizRepo.ListActiveQuizzes(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	summaries := make([]dto.QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		count, err := s.quizRepo.CountActiveQuestions(ctx, quiz.ID)
		if err != nil {
			return nil, domain.NewInternalError("Failed to count questions", err)
		}
		summaries = append(summaries, toQuizSummary(quiz, count))
	}

	return &dto.QuizListResponse{
		Quizzes: summaries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

func (s *catalogService) GetQuiz(ctx context.Context, actor domain.Actor, quizID string) (*dto.QuizDetailResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil || !quiz.IsActive {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	count, err := s.quizRepo.CountActiveQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count questions", err)
	}

	detail := &dto.QuizDetailResponse{
		QuizSummary:        toQuizSummary(quiz, count),
		ShuffleQuestions:   quiz.ShuffleQuestions,
		ShowCorrectAnswers: quiz.ShowCorrectAnswers,
		PointsPerQuestion:  quiz.PointsPerQuestion,
		CanStart:           true,
	}

	if !actor.IsGuest() && quiz.IsPremium() {
		hasPremium, err := s.billing.HasActivePremium(ctx, actor.UserID())
		if err != nil {
			return nil, domain.NewInternalError("Failed to check subscription status", err)
		}
		detail.HasActiveSubscription = hasPremium
	}

	if err := s.entitlement.CanStart(ctx, actor, quiz); err != nil {
		detail.CanStart = false
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			detail.CanStartReason = domainErr.Message
		}
	}

	last, err := s.attemptRepo.GetLatestAttempt(ctx, quiz.ID, actor)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load last attempt", err)
	}
	if last != nil {
		entry := dto.AttemptHistoryEntry{
			AttemptID:      last.ID,
			QuizID:         last.QuizID,
			Status:         string(last.Status),
			Score:          last.Score,
			Passed:         last.Passed,
			TotalQuestions: last.TotalQuestions,
			StartedAt:      last.StartedAt.Format(time.RFC3339),
		}
		if last.CompletedAt != nil {
			entry.CompletedAt = last.CompletedAt.Format(time.RFC3339)
		}
		detail.LastAttempt = &entry
	}

	return detail, nil
}

func toQuizSummary(quiz *domain.Quiz, questionCount int) dto.QuizSummary {
	return dto.QuizSummary{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Description:    quiz.Description,
		CategoryID:     quiz.CategoryID,
		Type:           string(quiz.Type),
		TimeLimit:      quiz.TimeLimitMinutes,
		PassingScore:   quiz.PassingScore,
		MaxAttempts:    quiz.MaxAttempts,
		TotalQuestions: questionCount,
	}
}
