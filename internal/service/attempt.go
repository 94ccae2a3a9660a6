package service

import (
	"context"
	"math"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/logger"
	"quizdeck/internal/util"

	"go.uber.org/zap"
)

// AttemptService owns the attempt lifecycle: creation, per-question answer
// recording, flagging, progress tallying and completion. All mutating
// operations verify ownership and re-check the attempt's status so that
// concurrent requests for the same attempt converge instead of racing.
type AttemptService interface {
	Start(ctx context.Context, actor domain.Actor, quizID string) (*dto.StartAttemptResponse, error)
	RecordAnswer(ctx context.Context, actor domain.Actor, attemptID string, req *dto.RecordAnswerRequest) (*dto.RecordAnswerResponse, error)
	ToggleFlag(ctx context.Context, actor domain.Actor, attemptID, questionID string) (*dto.ToggleFlagResponse, error)
	Complete(ctx context.Context, actor domain.Actor, attemptID string) (*dto.AttemptResultResponse, error)
	Abandon(ctx context.Context, actor domain.Actor, attemptID string) error
	GetState(ctx context.Context, actor domain.Actor, attemptID string) (*dto.AttemptStateResponse, error)
	GetResult(ctx context.Context, actor domain.Actor, attemptID string) (*dto.AttemptResultDetailResponse, error)
	GetFlagged(ctx context.Context, actor domain.Actor, attemptID string) (*dto.FlaggedQuestionsResponse, error)
}

type attemptService struct {
	quizRepo    domain.QuizRepository
	attemptRepo domain.AttemptRepository
	entitlement EntitlementService
	resolver    QuestionSetResolver
	timer       *TimerPolicy
	txManager   domain.TransactionManager
	now         func() time.Time
}

// NewAttemptService creates the attempt state machine with its collaborators.
func NewAttemptService(
	quizRepo domain.QuizRepository,
	attemptRepo domain.AttemptRepository,
	entitlement EntitlementService,
	resolver QuestionSetResolver,
	timer *TimerPolicy,
	txManager domain.TransactionManager,
) AttemptService {
	return &attemptService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		entitlement: entitlement,
		resolver:    resolver,
		timer:       timer,
		txManager:   txManager,
		now:         time.Now,
	}
}

// Start gates the request through the entitlement service, resolves the
// question set and creates the attempt with the resolved order captured on
// it so later reads stay stable even for shuffled quizzes.
func (s *attemptService) Start(ctx context.Context, actor domain.Actor, quizID string) (*dto.StartAttemptResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	if err := s.entitlement.CanStart(ctx, actor, quiz); err != nil {
		return nil, err
	}

	questions, err := s.resolver.Resolve(ctx, quiz)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}

	now := s.now()
	attempt := &domain.QuizAttempt{
		ID:             util.NewULID(),
		QuizID:         quiz.ID,
		UserID:         actor.UserID(),
		GuestSessionID: actor.GuestSessionID(),
		Status:         domain.AttemptInProgress,
		QuestionOrder:  order,
		TotalQuestions: len(questions),
		StartedAt:      now,
	}

	if err := s.attemptRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("Failed to create attempt", err)
	}

	logger.Get().Info("Attempt started",
		zap.String("attempt_id", attempt.ID),
		zap.String("quiz_id", quiz.ID),
		zap.Bool("guest", actor.IsGuest()),
		zap.Int("total_questions", attempt.TotalQuestions),
	)

	return &dto.StartAttemptResponse{
		AttemptID:        attempt.ID,
		QuizID:           quiz.ID,
		Status:           string(attempt.Status),
		TotalQuestions:   attempt.TotalQuestions,
		Questions:        toQuestionViews(questions),
		RemainingSeconds: s.timer.Remaining(attempt, quiz),
		StartedAt:        attempt.StartedAt,
	}, nil
}

// RecordAnswer grades and upserts the answer for one question. The upsert is
// keyed on the (attempt, question) pair and the totals are always recomputed
// from the answer rows, so repeating the call with the same inputs converges
// on the same state.
func (s *attemptService) RecordAnswer(ctx context.Context, actor domain.Actor, attemptID string, req *dto.RecordAnswerRequest) (*dto.RecordAnswerResponse, error) {
	attempt, quiz, err := s.loadOwnedAttempt(ctx, actor, attemptID)
	if err != nil {
		return nil, err
	}

	// Lazy expiry: a timed-out attempt is force-completed before the answer
	// is considered, so expiry wins the race against a late submission.
	if attempt, err = s.enforceExpiry(ctx, attempt, quiz); err != nil {
		return nil, err
	}
	if !attempt.IsInProgress() {
		return nil, domain.NewConflictError("Attempt is no longer in progress")
	}

	selected, err := domain.ParseOption(req.SelectedOption)
	if err != nil {
		return nil, err
	}

	question, err := s.quizRepo.GetQuestionByID(ctx, req.QuestionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question", err)
	}
	if question == nil || question.QuizID != attempt.QuizID {
		return nil, domain.NewValidationError("Invalid question for this quiz")
	}

	verdict := Grade(selected, question.CorrectOption, quiz.PointsPerQuestion)

	answer := &domain.AttemptAnswer{
		ID:               util.NewULID(),
		AttemptID:        attempt.ID,
		QuestionID:       question.ID,
		SelectedOption:   &selected,
		IsCorrect:        verdict.IsCorrect,
		PointsEarned:     verdict.PointsEarned,
		TimeTakenSeconds: req.TimeTakenSeconds,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.attemptRepo.UpsertAnswer(txCtx, answer); err != nil {
			return domain.NewInternalError("Failed to save answer", err)
		}

		answers, err := s.attemptRepo.GetAnswers(txCtx, attempt.ID)
		if err != nil {
			return domain.NewInternalError("Failed to load answers", err)
		}
		stats := domain.StatsFromAnswers(answers)
		attempt.AnsweredQuestions = stats.Answered
		attempt.CorrectAnswers = stats.Correct
		attempt.WrongAnswers = stats.Wrong
		attempt.PointsEarned = stats.PointsEarned

		updated, err := s.attemptRepo.UpdateAttemptIfInProgress(txCtx, attempt)
		if err != nil {
			return domain.NewInternalError("Failed to update attempt", err)
		}
		if !updated {
			return domain.NewConflictError("Attempt is no longer in progress")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Answer recorded",
		zap.String("attempt_id", attempt.ID),
		zap.String("question_id", question.ID),
		zap.Bool("is_correct", verdict.IsCorrect),
		zap.Int("points_earned", verdict.PointsEarned),
	)

	return &dto.RecordAnswerResponse{
		IsCorrect:    verdict.IsCorrect,
		PointsEarned: verdict.PointsEarned,
	}, nil
}

// ToggleFlag inverts the review flag on an already-recorded answer. A
// question with no answer row yet cannot be flagged; the row is what carries
// the flag.
func (s *attemptService) ToggleFlag(ctx context.Context, actor domain.Actor, attemptID, questionID string) (*dto.ToggleFlagResponse, error) {
	attempt, _, err := s.loadOwnedAttempt(ctx, actor, attemptID)
	if err != nil {
		return nil, err
	}

	answer, err := s.attemptRepo.GetAnswer(ctx, attempt.ID, questionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load answer", err)
	}
	if answer == nil {
		return nil, domain.NewNotFoundError("Question not found in this attempt")
	}

	flagged := !answer.IsFlagged
	if err := s.attemptRepo.SetAnswerFlag(ctx, answer.ID, flagged); err != nil {
		return nil, domain.NewInternalError("Failed to update flag", err)
	}

	return &dto.ToggleFlagResponse{
		QuestionID: questionID,
		IsFlagged:  flagged,
	}, nil
}

// Complete finalizes the attempt. Calling it on an already terminal attempt
// is a no-op returning the stored result, never a rescore with fresh timing.
func (s *attemptService) Complete(ctx context.Context, actor domain.Actor, attemptID string) (*dto.AttemptResultResponse, error) {
	attempt, quiz, err := s.loadOwnedAttempt(ctx, actor, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.Status.IsTerminal() {
		return toResultResponse(attempt), nil
	}

	attempt, err = s.finalize(ctx, attempt, quiz)
	if err != nil {
		return nil, err
	}
	return toResultResponse(attempt), nil
}

// Abandon transitions the attempt to abandoned: timing is stamped but no
// score or pass verdict is computed.
func (s *attemptService) Abandon(ctx context.Context, actor domain.Actor, attemptID string) error {
	attempt, _, err := s.loadOwnedAttempt(ctx, actor, attemptID)
	if err != nil {
		return err
	}
	if attempt.Status.IsTerminal() {
		return domain.NewConflictError("Attempt is no longer in progress")
	}

	now := s.now()
	attempt.Status = domain.AttemptAbandoned
	attempt.CompletedAt = &now
	attempt.TimeSpentSeconds = int(now.Sub(attempt.StartedAt).Seconds())

	updated, err := s.attemptRepo.UpdateAttemptIfInProgress(ctx, attempt)
	if err != nil {
		return domain.NewInternalError("Failed to abandon attempt", err)
	}
	if !updated {
		return domain.NewConflictError("Attempt is no longer in progress")
	}

	logger.Get().Info("Attempt abandoned",
		zap.String("attempt_id", attempt.ID),
		zap.Int("time_spent_seconds", attempt.TimeSpentSeconds),
	)
	return nil
}

// GetState returns the current counters, question list in the captured
// order, and remaining time. Reading the state of a timed-out attempt
// finalizes it first.
func (s *attemptService) GetState(ctx context.Context, actor domain.Actor, attemptID string) (*dto.AttemptStateResponse, error) {
	attempt, quiz, err := s.loadOwnedAttempt(ctx, actor, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt, err = s.enforceExpiry(ctx, attempt, quiz); err != nil {
		return nil, err
	}

	questions, err := s.questionsInAttemptOrder(ctx, attempt)
	if err != nil {
		return nil, err
	}

	answers, err := s.attemptRepo.GetAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load answers", err)
	}

	var remaining *int
	if attempt.IsInProgress() {
		remaining = s.timer.Remaining(attempt, quiz)
	}

	return &dto.AttemptStateResponse{
		AttemptID:         attempt.ID,
		QuizID:            attempt.QuizID,
		Status:            string(attempt.Status),
		TotalQuestions:    attempt.TotalQuestions,
		AnsweredQuestions: attempt.AnsweredQuestions,
		RemainingSeconds:  remaining,
		Questions:         toQuestionViews(questions),
		Answers:           toAnswerViews(answers),
	}, nil
}

// GetResult returns the finalized outcome with the per-question review.
// Correct options are included only when the quiz allows revealing them.
func (s *attemptService) GetResult(ctx context.Context, actor domain.Actor, attemptID string) (*dto.AttemptResultDetailResponse, error) {
	attempt, quiz, err := s.loadOwnedAttempt(ctx, actor, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != domain.AttemptCompleted {
		return nil, domain.NewConflictError("Attempt is not completed yet")
	}

	answers, err := s.attemptRepo.GetAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load answers", err)
	}

	questions, err := s.questionsInAttemptOrder(ctx, attempt)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	reviews := make([]dto.AnswerReview, 0, len(answers))
	for _, ans := range answers {
		review := dto.AnswerReview{
			QuestionID:   ans.QuestionID,
			IsCorrect:    ans.IsCorrect,
			PointsEarned: ans.PointsEarned,
			IsFlagged:    ans.IsFlagged,
		}
		if ans.SelectedOption != nil {
			review.SelectedOption = string(*ans.SelectedOption)
		}
		if q := byID[ans.QuestionID]; q != nil {
			review.QuestionText = q.Text
			if quiz.ShowCorrectAnswers {
				review.CorrectOption = string(q.CorrectOption)
			}
		}
		reviews = append(reviews, review)
	}

	return &dto.AttemptResultDetailResponse{
		AttemptResultResponse: *toResultResponse(attempt),
		Answers:               reviews,
	}, nil
}

// GetFlagged lists the question IDs flagged for review in this attempt.
func (s *attemptService) GetFlagged(ctx context.Context, actor domain.Actor, attemptID string) (*dto.FlaggedQuestionsResponse, error) {
	attempt, _, err := s.loadOwnedAttempt(ctx, actor, attemptID)
	if err != nil {
		return nil, err
	}

	flagged, err := s.attemptRepo.GetFlaggedAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load flagged answers", err)
	}

	ids := make([]string, 0, len(flagged))
	for _, ans := range flagged {
		ids = append(ids, ans.QuestionID)
	}

	return &dto.FlaggedQuestionsResponse{
		AttemptID:        attempt.ID,
		FlaggedQuestions: ids,
	}, nil
}

// loadOwnedAttempt fetches the attempt with its quiz and enforces ownership.
func (s *attemptService) loadOwnedAttempt(ctx context.Context, actor domain.Actor, attemptID string) (*domain.QuizAttempt, *domain.Quiz, error) {
	if err := actor.Validate(); err != nil {
		return nil, nil, err
	}

	attempt, err := s.attemptRepo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, nil, domain.NewInternalError("Failed to get attempt", err)
	}
	if attempt == nil {
		return nil, nil, domain.NewAttemptNotFoundError(attemptID)
	}
	if !actor.Owns(attempt) {
		return nil, nil, domain.NewForbiddenError("Unauthorized attempt access")
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, nil, domain.NewQuizNotFoundError(attempt.QuizID)
	}
	return attempt, quiz, nil
}

// enforceExpiry force-completes a timed-out in-progress attempt and returns
// the refreshed attempt.
func (s *attemptService) enforceExpiry(ctx context.Context, attempt *domain.QuizAttempt, quiz *domain.Quiz) (*domain.QuizAttempt, error) {
	if !attempt.IsInProgress() || !s.timer.Expired(attempt, quiz) {
		return attempt, nil
	}

	logger.Get().Info("Attempt expired, force-completing",
		zap.String("attempt_id", attempt.ID),
		zap.String("quiz_id", quiz.ID),
	)
	return s.finalize(ctx, attempt, quiz)
}

// finalize recomputes the counters from the answer rows, re-derives the
// total from the quiz's currently active question count, computes score and
// pass verdict, and transitions to completed. When a concurrent request won
// the transition the stored result is returned unchanged.
func (s *attemptService) finalize(ctx context.Context, attempt *domain.QuizAttempt, quiz *domain.Quiz) (*domain.QuizAttempt, error) {
	answers, err := s.attemptRepo.GetAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load answers", err)
	}
	stats := domain.StatsFromAnswers(answers)

	// Guards against admin edits mid-attempt.
	total, err := s.quizRepo.CountActiveQuestions(ctx, attempt.QuizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count questions", err)
	}

	var score float64
	if total > 0 {
		score = math.Round(float64(stats.Correct)/float64(total)*100*100) / 100
	}

	now := s.now()
	attempt.Status = domain.AttemptCompleted
	attempt.CompletedAt = &now
	attempt.TotalQuestions = total
	attempt.AnsweredQuestions = stats.Answered
	attempt.CorrectAnswers = stats.Correct
	attempt.WrongAnswers = stats.Wrong
	attempt.PointsEarned = stats.PointsEarned
	attempt.Score = score
	attempt.Passed = score >= float64(quiz.PassingScore)
	attempt.TimeSpentSeconds = int(now.Sub(attempt.StartedAt).Seconds())

	updated, err := s.attemptRepo.UpdateAttemptIfInProgress(ctx, attempt)
	if err != nil {
		return nil, domain.NewInternalError("Failed to complete attempt", err)
	}
	if !updated {
		// Lost the race to another finalizer; the stored result stands.
		stored, err := s.attemptRepo.GetAttemptByID(ctx, attempt.ID)
		if err != nil {
			return nil, domain.NewInternalError("Failed to reload attempt", err)
		}
		if stored == nil {
			return nil, domain.NewAttemptNotFoundError(attempt.ID)
		}
		return stored, nil
	}

	logger.Get().Info("Attempt completed",
		zap.String("attempt_id", attempt.ID),
		zap.String("quiz_id", attempt.QuizID),
		zap.Float64("score", attempt.Score),
		zap.Bool("passed", attempt.Passed),
		zap.Int("correct_answers", attempt.CorrectAnswers),
		zap.Int("wrong_answers", attempt.WrongAnswers),
		zap.Int("total_questions", attempt.TotalQuestions),
	)
	return attempt, nil
}

// questionsInAttemptOrder loads the attempt's questions in the order
// captured at start time.
func (s *attemptService) questionsInAttemptOrder(ctx context.Context, attempt *domain.QuizAttempt) ([]*domain.Question, error) {
	questions, err := s.quizRepo.GetQuestionsByIDs(ctx, attempt.QuestionOrder)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load questions", err)
	}

	byID := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]*domain.Question, 0, len(attempt.QuestionOrder))
	for _, id := range attempt.QuestionOrder {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

func toQuestionViews(questions []*domain.Question) []dto.QuestionView {
	views := make([]dto.QuestionView, len(questions))
	for i, q := range questions {
		views[i] = dto.QuestionView{
			ID:        q.ID,
			Text:      q.Text,
			ImagePath: q.ImagePath,
			OptionA:   q.OptionA,
			OptionB:   q.OptionB,
			OptionC:   q.OptionC,
			OptionD:   q.OptionD,
		}
	}
	return views
}

func toAnswerViews(answers []domain.AttemptAnswer) []dto.AnswerView {
	views := make([]dto.AnswerView, len(answers))
	for i, ans := range answers {
		views[i] = dto.AnswerView{
			QuestionID:   ans.QuestionID,
			IsCorrect:    ans.IsCorrect,
			PointsEarned: ans.PointsEarned,
			IsFlagged:    ans.IsFlagged,
		}
		if ans.SelectedOption != nil {
			views[i].SelectedOption = string(*ans.SelectedOption)
		}
	}
	return views
}

func toResultResponse(attempt *domain.QuizAttempt) *dto.AttemptResultResponse {
	return &dto.AttemptResultResponse{
		AttemptID:        attempt.ID,
		QuizID:           attempt.QuizID,
		Status:           string(attempt.Status),
		Score:            attempt.Score,
		Passed:           attempt.Passed,
		TotalQuestions:   attempt.TotalQuestions,
		CorrectAnswers:   attempt.CorrectAnswers,
		WrongAnswers:     attempt.WrongAnswers,
		PointsEarned:     attempt.PointsEarned,
		TimeSpentSeconds: attempt.TimeSpentSeconds,
		CompletedAt:      attempt.CompletedAt,
	}
}
