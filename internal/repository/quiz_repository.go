package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
	"quizdeck/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxQuizRepository implements domain.QuizRepository using sqlx. The
// attempt engine only ever reads quizzes and questions; admin CRUD lives
// outside this service.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:                 m.ID,
		Title:              m.Title,
		Description:        m.Description.String,
		CategoryID:         m.CategoryID,
		Type:               domain.QuizType(m.QuizType),
		TimeLimitMinutes:   util.NullInt64ToIntPtr(m.TimeLimit),
		PassingScore:       m.PassingScore,
		MaxAttempts:        util.NullInt64ToIntPtr(m.MaxAttempts),
		IsActive:           m.IsActive,
		ShuffleQuestions:   m.ShuffleQuestions,
		ShowCorrectAnswers: m.ShowCorrectAnswers,
		PointsPerQuestion:  m.PointsPerQuestion,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		Text:          m.QuestionText,
		ImagePath:     m.ImagePath.String,
		OptionA:       m.OptionA,
		OptionB:       m.OptionB,
		OptionC:       m.OptionC,
		OptionD:       m.OptionD,
		CorrectOption: domain.Option(m.CorrectOption),
		IsActive:      m.IsActive,
		DisplayOrder:  m.DisplayOrder,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// GetQuizByID retrieves a quiz by its ID. Returns nil, nil when not found.
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	var m models.Quiz
	query := `SELECT * FROM quizzes WHERE id = :id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetQuizByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &m, map[string]interface{}{"id": quizID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	return toDomainQuiz(&m), nil
}

// ListActiveQuizzes returns active quizzes matching the filter plus the
// total match count for pagination.
func (r *sqlxQuizRepository) ListActiveQuizzes(ctx context.Context, filter domain.QuizListFilter) ([]*domain.Quiz, int, error) {
	var args []interface{}
	whereClauses := []string{"is_active = 1"}
	argIndex := 1

	if filter.CategoryID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category_id = :%d", argIndex))
		args = append(args, filter.CategoryID)
		argIndex++
	}
	if filter.Type != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("quiz_type = :%d", argIndex))
		args = append(args, string(filter.Type))
		argIndex++
	}

	queryWhere := "WHERE " + strings.Join(whereClauses, " AND ")

	limit := filter.Limit
	if limit <= 0 {
		limit = 12
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	innerQuery := fmt.Sprintf("SELECT q.*, ROW_NUMBER() OVER (ORDER BY q.title) as rn FROM quizzes q %s", queryWhere)
	resultsQuery := fmt.Sprintf("SELECT * FROM (%s) WHERE rn > %d AND rn <= %d", innerQuery, offset, offset+limit)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM quizzes %s", queryWhere)

	rows, err := r.db.QueryContext(ctx, resultsQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query for ListActiveQuizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*domain.Quiz
	for rows.Next() {
		var m models.Quiz
		var rn int
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Description,
			&m.CategoryID,
			&m.QuizType,
			&m.TimeLimit,
			&m.PassingScore,
			&m.MaxAttempts,
			&m.IsActive,
			&m.ShuffleQuestions,
			&m.ShowCorrectAnswers,
			&m.PointsPerQuestion,
			&m.CreatedAt,
			&m.UpdatedAt,
			&rn,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, toDomainQuiz(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate quizzes: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	return quizzes, total, nil
}

// GetActiveQuestions returns the active questions of a quiz ordered by
// display order ascending with ID as a stable tie-break.
func (r *sqlxQuizRepository) GetActiveQuestions(ctx context.Context, quizID string) ([]*domain.Question, error) {
	var ms []models.Question
	query := `SELECT * FROM questions WHERE quiz_id = :1 AND is_active = 1 ORDER BY display_order ASC, id ASC`

	if err := r.db.SelectContext(ctx, &ms, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get active questions: %w", err)
	}

	questions := make([]*domain.Question, len(ms))
	for i := range ms {
		questions[i] = toDomainQuestion(&ms[i])
	}
	return questions, nil
}

// CountActiveQuestions returns the number of active questions of a quiz.
func (r *sqlxQuizRepository) CountActiveQuestions(ctx context.Context, quizID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM questions WHERE quiz_id = :1 AND is_active = 1`

	if err := r.db.GetContext(ctx, &count, query, quizID); err != nil {
		return 0, fmt.Errorf("failed to count active questions: %w", err)
	}
	return count, nil
}

// GetQuestionByID retrieves a question by its ID. Returns nil, nil when not
// found.
func (r *sqlxQuizRepository) GetQuestionByID(ctx context.Context, questionID string) (*domain.Question, error) {
	var m models.Question
	query := `SELECT * FROM questions WHERE id = :id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetQuestionByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &m, map[string]interface{}{"id": questionID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return toDomainQuestion(&m), nil
}

// GetQuestionsByIDs returns the questions for the given IDs, inactive ones
// included; historical attempts keep referencing them.
func (r *sqlxQuizRepository) GetQuestionsByIDs(ctx context.Context, questionIDs []string) ([]*domain.Question, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(questionIDs))
	args := make([]interface{}, len(questionIDs))
	for i, id := range questionIDs {
		placeholders[i] = fmt.Sprintf(":%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT * FROM questions WHERE id IN (%s)`, strings.Join(placeholders, ", "))

	var ms []models.Question
	if err := r.db.SelectContext(ctx, &ms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get questions by ids: %w", err)
	}

	questions := make([]*domain.Question, len(ms))
	for i := range ms {
		questions[i] = toDomainQuestion(&ms[i])
	}
	return questions, nil
}
