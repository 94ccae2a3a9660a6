package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a list of strings as a JSON array in a text column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// Quiz represents the quizzes table.
type Quiz struct {
	ID                 string         `db:"ID"` // ULID
	Title              string         `db:"TITLE"`
	Description        sql.NullString `db:"DESCRIPTION"`
	CategoryID         string         `db:"CATEGORY_ID"`
	QuizType           string         `db:"QUIZ_TYPE"`  // free | premium
	TimeLimit          sql.NullInt64  `db:"TIME_LIMIT"` // minutes, NULL => unlimited
	PassingScore       int            `db:"PASSING_SCORE"`
	MaxAttempts        sql.NullInt64  `db:"MAX_ATTEMPTS"` // NULL => unlimited
	IsActive           bool           `db:"IS_ACTIVE"`
	ShuffleQuestions   bool           `db:"SHUFFLE_QUESTIONS"`
	ShowCorrectAnswers bool           `db:"SHOW_CORRECT_ANSWERS"`
	PointsPerQuestion  int            `db:"POINTS_PER_QUESTION"`
	CreatedAt          time.Time      `db:"CREATED_AT"`
	UpdatedAt          time.Time      `db:"UPDATED_AT"`
}

// Question represents the questions table.
type Question struct {
	ID            string         `db:"ID"` // ULID
	QuizID        string         `db:"QUIZ_ID"`
	QuestionText  string         `db:"QUESTION_TEXT"`
	ImagePath     sql.NullString `db:"IMAGE_PATH"`
	OptionA       string         `db:"OPTION_A"`
	OptionB       string         `db:"OPTION_B"`
	OptionC       string         `db:"OPTION_C"`
	OptionD       string         `db:"OPTION_D"`
	CorrectOption string         `db:"CORRECT_OPTION"` // A | B | C | D
	IsActive      bool           `db:"IS_ACTIVE"`
	DisplayOrder  int            `db:"DISPLAY_ORDER"`
	CreatedAt     time.Time      `db:"CREATED_AT"`
	UpdatedAt     time.Time      `db:"UPDATED_AT"`
}

// QuizAttempt represents the quiz_attempts table. Either USER_ID or
// GUEST_SESSION_ID is set, never both.
type QuizAttempt struct {
	ID                string         `db:"ID"` // ULID
	QuizID            string         `db:"QUIZ_ID"`
	UserID            sql.NullString `db:"USER_ID"`
	GuestSessionID    sql.NullString `db:"GUEST_SESSION_ID"`
	Status            string         `db:"STATUS"`         // in_progress | completed | abandoned
	QuestionOrder     StringSlice    `db:"QUESTION_ORDER"` // question IDs in the resolved order
	TotalQuestions    int            `db:"TOTAL_QUESTIONS"`
	AnsweredQuestions int            `db:"ANSWERED_QUESTIONS"`
	CorrectAnswers    int            `db:"CORRECT_ANSWERS"`
	WrongAnswers      int            `db:"WRONG_ANSWERS"`
	PointsEarned      int            `db:"POINTS_EARNED"`
	Score             float64        `db:"SCORE"`
	Passed            bool           `db:"PASSED"`
	StartedAt         time.Time      `db:"STARTED_AT"`
	CompletedAt       sql.NullTime   `db:"COMPLETED_AT"`
	TimeSpentSeconds  sql.NullInt64  `db:"TIME_SPENT_SECONDS"`
	CreatedAt         time.Time      `db:"CREATED_AT"`
	UpdatedAt         time.Time      `db:"UPDATED_AT"`
}

// QuizAttemptAnswer represents the quiz_attempt_answers table. The
// (QUIZ_ATTEMPT_ID, QUESTION_ID) pair is unique.
type QuizAttemptAnswer struct {
	ID               string         `db:"ID"` // ULID
	QuizAttemptID    string         `db:"QUIZ_ATTEMPT_ID"`
	QuestionID       string         `db:"QUESTION_ID"`
	SelectedOption   sql.NullString `db:"SELECTED_OPTION"` // NULL for placeholder rows
	IsCorrect        bool           `db:"IS_CORRECT"`
	PointsEarned     int            `db:"POINTS_EARNED"`
	TimeTaken        sql.NullInt64  `db:"TIME_TAKEN"` // seconds
	IsFlagged        bool           `db:"IS_FLAGGED"`
	CreatedAt        time.Time      `db:"CREATED_AT"`
	UpdatedAt        time.Time      `db:"UPDATED_AT"`
}

// UserSubscription represents the user_subscriptions table; only the fields
// the entitlement read needs.
type UserSubscription struct {
	ID        string       `db:"ID"` // ULID
	UserID    string       `db:"USER_ID"`
	Status    string       `db:"STATUS"` // active | cancelled | expired
	StartsAt  time.Time    `db:"STARTS_AT"`
	EndsAt    time.Time    `db:"ENDS_AT"`
	CreatedAt time.Time    `db:"CREATED_AT"`
	UpdatedAt time.Time    `db:"UPDATED_AT"`
}
