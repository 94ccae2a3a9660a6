package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
	"quizdeck/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
// Mutating methods resolve their executor through GetExecutor so they join
// any transaction carried in the context.
type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainQuizAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	attempt := &domain.QuizAttempt{
		ID:                m.ID,
		QuizID:            m.QuizID,
		UserID:            m.UserID.String,
		GuestSessionID:    m.GuestSessionID.String,
		Status:            domain.AttemptStatus(m.Status),
		QuestionOrder:     []string(m.QuestionOrder),
		TotalQuestions:    m.TotalQuestions,
		AnsweredQuestions: m.AnsweredQuestions,
		CorrectAnswers:    m.CorrectAnswers,
		WrongAnswers:      m.WrongAnswers,
		PointsEarned:      m.PointsEarned,
		Score:             m.Score,
		Passed:            m.Passed,
		StartedAt:         m.StartedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.CompletedAt.Valid {
		t := m.CompletedAt.Time
		attempt.CompletedAt = &t
	}
	if m.TimeSpentSeconds.Valid {
		attempt.TimeSpentSeconds = int(m.TimeSpentSeconds.Int64)
	}
	return attempt
}

func fromDomainQuizAttempt(a *domain.QuizAttempt) *models.QuizAttempt {
	m := &models.QuizAttempt{
		ID:                a.ID,
		QuizID:            a.QuizID,
		UserID:            util.StringToNullString(a.UserID),
		GuestSessionID:    util.StringToNullString(a.GuestSessionID),
		Status:            string(a.Status),
		QuestionOrder:     models.StringSlice(a.QuestionOrder),
		TotalQuestions:    a.TotalQuestions,
		AnsweredQuestions: a.AnsweredQuestions,
		CorrectAnswers:    a.CorrectAnswers,
		WrongAnswers:      a.WrongAnswers,
		PointsEarned:      a.PointsEarned,
		Score:             a.Score,
		Passed:            a.Passed,
		StartedAt:         a.StartedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.CompletedAt != nil {
		m.CompletedAt = sql.NullTime{Time: *a.CompletedAt, Valid: true}
	}
	if a.TimeSpentSeconds > 0 {
		m.TimeSpentSeconds = sql.NullInt64{Int64: int64(a.TimeSpentSeconds), Valid: true}
	}
	return m
}

func toDomainAttemptAnswer(m *models.QuizAttemptAnswer) *domain.AttemptAnswer {
	if m == nil {
		return nil
	}
	ans := &domain.AttemptAnswer{
		ID:           m.ID,
		AttemptID:    m.QuizAttemptID,
		QuestionID:   m.QuestionID,
		IsCorrect:    m.IsCorrect,
		PointsEarned: m.PointsEarned,
		IsFlagged:    m.IsFlagged,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.SelectedOption.Valid {
		opt := domain.Option(m.SelectedOption.String)
		ans.SelectedOption = &opt
	}
	if m.TimeTaken.Valid {
		v := int(m.TimeTaken.Int64)
		ans.TimeTakenSeconds = &v
	}
	return ans
}

func fromDomainAttemptAnswer(a *domain.AttemptAnswer) *models.QuizAttemptAnswer {
	m := &models.QuizAttemptAnswer{
		ID:            a.ID,
		QuizAttemptID: a.AttemptID,
		QuestionID:    a.QuestionID,
		IsCorrect:     a.IsCorrect,
		PointsEarned:  a.PointsEarned,
		IsFlagged:     a.IsFlagged,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.SelectedOption != nil {
		m.SelectedOption = sql.NullString{String: string(*a.SelectedOption), Valid: true}
	}
	if a.TimeTakenSeconds != nil {
		m.TimeTaken = sql.NullInt64{Int64: int64(*a.TimeTakenSeconds), Valid: true}
	}
	return m
}

// CreateAttempt inserts a new attempt row. The caller is responsible for
// assigning the ID.
func (r *sqlxAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	executor := GetExecutor(ctx, r.db)

	now := time.Now()
	attempt.CreatedAt = now
	attempt.UpdatedAt = now
	m := fromDomainQuizAttempt(attempt)

	query := `INSERT INTO quiz_attempts (
		id, quiz_id, user_id, guest_session_id, status, question_order,
		total_questions, answered_questions, correct_answers, wrong_answers,
		points_earned, score, passed, started_at, completed_at,
		time_spent_seconds, created_at, updated_at
	) VALUES (
		:ID, :QUIZ_ID, :USER_ID, :GUEST_SESSION_ID, :STATUS, :QUESTION_ORDER,
		:TOTAL_QUESTIONS, :ANSWERED_QUESTIONS, :CORRECT_ANSWERS, :WRONG_ANSWERS,
		:POINTS_EARNED, :SCORE, :PASSED, :STARTED_AT, :COMPLETED_AT,
		:TIME_SPENT_SECONDS, :CREATED_AT, :UPDATED_AT
	)`

	if _, err := executor.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// GetAttemptByID retrieves an attempt by its ID. Returns nil, nil when not
// found.
func (r *sqlxAttemptRepository) GetAttemptByID(ctx context.Context, attemptID string) (*domain.QuizAttempt, error) {
	executor := GetExecutor(ctx, r.db)

	var m models.QuizAttempt
	query := `SELECT * FROM quiz_attempts WHERE id = :1`

	err := executor.GetContext(ctx, &m, query, attemptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt by id: %w", err)
	}
	return toDomainQuizAttempt(&m), nil
}

// UpdateAttemptIfInProgress applies the update only while the stored row is
// still in_progress. The status guard in the WHERE clause is what serializes
// concurrent completion, abandonment, and answer submissions.
func (r *sqlxAttemptRepository) UpdateAttemptIfInProgress(ctx context.Context, attempt *domain.QuizAttempt) (bool, error) {
	executor := GetExecutor(ctx, r.db)

	attempt.UpdatedAt = time.Now()
	m := fromDomainQuizAttempt(attempt)

	query := `UPDATE quiz_attempts SET
		status = :STATUS,
		answered_questions = :ANSWERED_QUESTIONS,
		correct_answers = :CORRECT_ANSWERS,
		wrong_answers = :WRONG_ANSWERS,
		points_earned = :POINTS_EARNED,
		total_questions = :TOTAL_QUESTIONS,
		score = :SCORE,
		passed = :PASSED,
		completed_at = :COMPLETED_AT,
		time_spent_seconds = :TIME_SPENT_SECONDS,
		updated_at = :UPDATED_AT
	WHERE id = :ID AND status = 'in_progress'`

	result, err := executor.NamedExecContext(ctx, query, m)
	if err != nil {
		return false, fmt.Errorf("failed to update attempt: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}

// CountCompletedAttempts counts the actor's completed attempts on a quiz.
// Abandoned and in-progress attempts never count against the limit.
func (r *sqlxAttemptRepository) CountCompletedAttempts(ctx context.Context, quizID string, actor domain.Actor) (int, error) {
	executor := GetExecutor(ctx, r.db)

	var (
		query string
		ident string
	)
	if actor.IsGuest() {
		query = `SELECT COUNT(*) FROM quiz_attempts WHERE quiz_id = :1 AND guest_session_id = :2 AND status = 'completed'`
		ident = actor.GuestSessionID()
	} else {
		query = `SELECT COUNT(*) FROM quiz_attempts WHERE quiz_id = :1 AND user_id = :2 AND status = 'completed'`
		ident = actor.UserID()
	}

	var count int
	if err := executor.GetContext(ctx, &count, query, quizID, ident); err != nil {
		return 0, fmt.Errorf("failed to count completed attempts: %w", err)
	}
	return count, nil
}

// GetLatestAttempt returns the actor's most recent attempt on the quiz.
func (r *sqlxAttemptRepository) GetLatestAttempt(ctx context.Context, quizID string, actor domain.Actor) (*domain.QuizAttempt, error) {
	executor := GetExecutor(ctx, r.db)

	var (
		query string
		ident string
	)
	if actor.IsGuest() {
		query = `SELECT * FROM quiz_attempts WHERE quiz_id = :1 AND guest_session_id = :2 ORDER BY started_at DESC FETCH FIRST 1 ROWS ONLY`
		ident = actor.GuestSessionID()
	} else {
		query = `SELECT * FROM quiz_attempts WHERE quiz_id = :1 AND user_id = :2 ORDER BY started_at DESC FETCH FIRST 1 ROWS ONLY`
		ident = actor.UserID()
	}

	var m models.QuizAttempt
	if err := executor.GetContext(ctx, &m, query, quizID, ident); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest attempt: %w", err)
	}
	return toDomainQuizAttempt(&m), nil
}

// UpsertAnswer creates or overwrites the single answer row for the
// (attempt, question) pair. Flag state survives an overwrite.
func (r *sqlxAttemptRepository) UpsertAnswer(ctx context.Context, answer *domain.AttemptAnswer) (bool, error) {
	executor := GetExecutor(ctx, r.db)

	var existing models.QuizAttemptAnswer
	selectQuery := `SELECT * FROM quiz_attempt_answers WHERE quiz_attempt_id = :1 AND question_id = :2`

	err := executor.GetContext(ctx, &existing, selectQuery, answer.AttemptID, answer.QuestionID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to look up answer: %w", err)
	}

	now := time.Now()
	if errors.Is(err, sql.ErrNoRows) {
		answer.ID = util.NewULID()
		answer.CreatedAt = now
		answer.UpdatedAt = now
		m := fromDomainAttemptAnswer(answer)

		insertQuery := `INSERT INTO quiz_attempt_answers (
			id, quiz_attempt_id, question_id, selected_option, is_correct,
			points_earned, time_taken, is_flagged, created_at, updated_at
		) VALUES (
			:ID, :QUIZ_ATTEMPT_ID, :QUESTION_ID, :SELECTED_OPTION, :IS_CORRECT,
			:POINTS_EARNED, :TIME_TAKEN, :IS_FLAGGED, :CREATED_AT, :UPDATED_AT
		)`
		if _, err := executor.NamedExecContext(ctx, insertQuery, m); err != nil {
			return false, fmt.Errorf("failed to insert answer: %w", err)
		}
		return true, nil
	}

	answer.ID = existing.ID
	answer.IsFlagged = existing.IsFlagged
	answer.CreatedAt = existing.CreatedAt
	answer.UpdatedAt = now
	m := fromDomainAttemptAnswer(answer)

	updateQuery := `UPDATE quiz_attempt_answers SET
		selected_option = :SELECTED_OPTION,
		is_correct = :IS_CORRECT,
		points_earned = :POINTS_EARNED,
		time_taken = :TIME_TAKEN,
		updated_at = :UPDATED_AT
	WHERE id = :ID`
	if _, err := executor.NamedExecContext(ctx, updateQuery, m); err != nil {
		return false, fmt.Errorf("failed to update answer: %w", err)
	}
	return false, nil
}

// GetAnswer retrieves the answer row for the (attempt, question) pair.
// Returns nil, nil when no row exists.
func (r *sqlxAttemptRepository) GetAnswer(ctx context.Context, attemptID, questionID string) (*domain.AttemptAnswer, error) {
	executor := GetExecutor(ctx, r.db)

	var m models.QuizAttemptAnswer
	query := `SELECT * FROM quiz_attempt_answers WHERE quiz_attempt_id = :1 AND question_id = :2`

	err := executor.GetContext(ctx, &m, query, attemptID, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return toDomainAttemptAnswer(&m), nil
}

// GetAnswers returns every answer row of an attempt.
func (r *sqlxAttemptRepository) GetAnswers(ctx context.Context, attemptID string) ([]domain.AttemptAnswer, error) {
	executor := GetExecutor(ctx, r.db)

	var ms []models.QuizAttemptAnswer
	query := `SELECT * FROM quiz_attempt_answers WHERE quiz_attempt_id = :1 ORDER BY created_at ASC, id ASC`

	if err := executor.SelectContext(ctx, &ms, query, attemptID); err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	answers := make([]domain.AttemptAnswer, len(ms))
	for i := range ms {
		answers[i] = *toDomainAttemptAnswer(&ms[i])
	}
	return answers, nil
}

// GetFlaggedAnswers returns the flagged answer rows of an attempt.
func (r *sqlxAttemptRepository) GetFlaggedAnswers(ctx context.Context, attemptID string) ([]domain.AttemptAnswer, error) {
	executor := GetExecutor(ctx, r.db)

	var ms []models.QuizAttemptAnswer
	query := `SELECT * FROM quiz_attempt_answers WHERE quiz_attempt_id = :1 AND is_flagged = 1 ORDER BY created_at ASC, id ASC`

	if err := executor.SelectContext(ctx, &ms, query, attemptID); err != nil {
		return nil, fmt.Errorf("failed to get flagged answers: %w", err)
	}

	answers := make([]domain.AttemptAnswer, len(ms))
	for i := range ms {
		answers[i] = *toDomainAttemptAnswer(&ms[i])
	}
	return answers, nil
}

// SetAnswerFlag sets the review flag on an answer row.
func (r *sqlxAttemptRepository) SetAnswerFlag(ctx context.Context, answerID string, flagged bool) error {
	executor := GetExecutor(ctx, r.db)

	flagValue := 0
	if flagged {
		flagValue = 1
	}
	query := `UPDATE quiz_attempt_answers SET is_flagged = :1, updated_at = :2 WHERE id = :3`

	if _, err := executor.ExecContext(ctx, query, flagValue, time.Now(), answerID); err != nil {
		return fmt.Errorf("failed to set answer flag: %w", err)
	}
	return nil
}

// ListAttemptsByUser returns a page of the user's attempts, newest first,
// plus the total match count.
func (r *sqlxAttemptRepository) ListAttemptsByUser(ctx context.Context, userID string, filter domain.AttemptHistoryFilter) ([]domain.QuizAttempt, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 15
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	args := []interface{}{userID}
	where := "WHERE user_id = :1"
	if filter.Status != "" {
		where += " AND status = :2"
		args = append(args, string(filter.Status))
	}

	query := fmt.Sprintf(
		`SELECT * FROM quiz_attempts %s ORDER BY started_at DESC OFFSET %d ROWS FETCH NEXT %d ROWS ONLY`,
		where, offset, limit,
	)

	var ms []models.QuizAttempt
	if err := r.db.SelectContext(ctx, &ms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM quiz_attempts %s`, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}

	attempts := make([]domain.QuizAttempt, len(ms))
	for i := range ms {
		attempts[i] = *toDomainQuizAttempt(&ms[i])
	}
	return attempts, total, nil
}

// GetHistoryStats computes the aggregate figures for a user's history page.
// The average covers completed attempts only.
func (r *sqlxAttemptRepository) GetHistoryStats(ctx context.Context, userID string) (*domain.AttemptHistoryStats, error) {
	var row struct {
		TotalAttempts int             `db:"TOTAL_ATTEMPTS"`
		Completed     int             `db:"COMPLETED"`
		Passed        int             `db:"PASSED"`
		AverageScore  sql.NullFloat64 `db:"AVERAGE_SCORE"`
	}
	query := `SELECT
		COUNT(*) AS total_attempts,
		COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed,
		COUNT(CASE WHEN status = 'completed' AND passed = 1 THEN 1 END) AS passed,
		AVG(CASE WHEN status = 'completed' THEN score END) AS average_score
	FROM quiz_attempts WHERE user_id = :1`

	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get history stats: %w", err)
	}

	return &domain.AttemptHistoryStats{
		TotalAttempts: row.TotalAttempts,
		Completed:     row.Completed,
		Passed:        row.Passed,
		AverageScore:  row.AverageScore.Float64,
	}, nil
}
