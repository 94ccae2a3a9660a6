package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func setupQuizTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestToDomainQuiz(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := &models.Quiz{
		ID:                 "quiz1",
		Title:              "Subnetting",
		Description:        sql.NullString{String: "CIDR drills", Valid: true},
		CategoryID:         "cat1",
		QuizType:           "premium",
		TimeLimit:          sql.NullInt64{Int64: 30, Valid: true},
		PassingScore:       70,
		MaxAttempts:        sql.NullInt64{Int64: 3, Valid: true},
		IsActive:           true,
		ShuffleQuestions:   true,
		ShowCorrectAnswers: false,
		PointsPerQuestion:  2,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	quiz := toDomainQuiz(m)
	assert.NotNil(t, quiz)
	assert.Equal(t, "quiz1", quiz.ID)
	assert.Equal(t, "CIDR drills", quiz.Description)
	assert.Equal(t, domain.QuizTypePremium, quiz.Type)
	assert.NotNil(t, quiz.TimeLimitMinutes)
	assert.Equal(t, 30, *quiz.TimeLimitMinutes)
	assert.NotNil(t, quiz.MaxAttempts)
	assert.Equal(t, 3, *quiz.MaxAttempts)
	assert.True(t, quiz.IsPremium())

	// NULL limits mean unlimited
	m.TimeLimit.Valid = false
	m.MaxAttempts.Valid = false
	quiz = toDomainQuiz(m)
	assert.Nil(t, quiz.TimeLimitMinutes)
	assert.Nil(t, quiz.MaxAttempts)

	assert.Nil(t, toDomainQuiz(nil))
}

func questionColumns() []string {
	return []string{
		"ID", "QUIZ_ID", "QUESTION_TEXT", "IMAGE_PATH", "OPTION_A", "OPTION_B",
		"OPTION_C", "OPTION_D", "CORRECT_OPTION", "IS_ACTIVE", "DISPLAY_ORDER",
		"CREATED_AT", "UPDATED_AT",
	}
}

func TestGetActiveQuestions(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM questions WHERE quiz_id = .+ AND is_active = 1 ORDER BY display_order ASC, id ASC`).
		WithArgs("quiz1").
		WillReturnRows(sqlmock.NewRows(questionColumns()).
			AddRow("q1", "quiz1", "First?", nil, "a", "b", "c", "d", "A", true, 1, now, now).
			AddRow("q2", "quiz1", "Second?", "img/q2.png", "a", "b", "c", "d", "C", true, 2, now, now))

	questions, err := repo.GetActiveQuestions(context.Background(), "quiz1")
	assert.NoError(t, err)
	assert.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, domain.OptionC, questions[1].CorrectOption)
	assert.True(t, questions[1].HasImage())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountActiveQuestions(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM questions WHERE quiz_id = .+ AND is_active = 1`).
		WithArgs("quiz1").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(12))

	count, err := repo.CountActiveQuestions(context.Background(), "quiz1")
	assert.NoError(t, err)
	assert.Equal(t, 12, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuestionsByIDsEmptyInput(t *testing.T) {
	db, _ := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	questions, err := repo.GetQuestionsByIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, questions)
}
