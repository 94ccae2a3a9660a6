package domain

import (
	"fmt"
	"time"
)

// QuizType controls who may start a quiz.
type QuizType string

const (
	QuizTypeFree    QuizType = "free"
	QuizTypePremium QuizType = "premium"
)

// Option is the closed set of answer choices for a multiple-choice question.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// ParseOption converts a raw string into an Option, rejecting anything
// outside the four-letter set.
func ParseOption(s string) (Option, error) {
	switch Option(s) {
	case OptionA, OptionB, OptionC, OptionD:
		return Option(s), nil
	}
	return "", NewValidationError(fmt.Sprintf("invalid option: %q (must be one of A, B, C, D)", s))
}

// Quiz represents a named assessment. It is created and edited by
// administrators; the attempt engine only ever reads it.
type Quiz struct {
	ID                 string
	Title              string
	Description        string
	CategoryID         string
	Type               QuizType
	TimeLimitMinutes   *int // nil means unlimited
	PassingScore       int  // percentage, 1..100
	MaxAttempts        *int // nil means unlimited
	IsActive           bool
	ShuffleQuestions   bool
	ShowCorrectAnswers bool
	PointsPerQuestion  int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate validates the quiz settings.
func (q *Quiz) Validate() error {
	if q.Title == "" {
		return NewValidationError("title is required")
	}
	if q.PassingScore < 1 || q.PassingScore > 100 {
		return NewValidationError("passing score must be between 1 and 100")
	}
	if q.PointsPerQuestion < 1 {
		return NewValidationError("points per question must be at least 1")
	}
	if q.TimeLimitMinutes != nil && *q.TimeLimitMinutes < 1 {
		return NewValidationError("time limit must be at least 1 minute")
	}
	if q.MaxAttempts != nil && *q.MaxAttempts < 1 {
		return NewValidationError("max attempts must be at least 1")
	}
	switch q.Type {
	case QuizTypeFree, QuizTypePremium:
	default:
		return NewValidationError(fmt.Sprintf("invalid quiz type: %q", q.Type))
	}
	return nil
}

// IsPremium reports whether the quiz is gated behind a subscription.
func (q *Quiz) IsPremium() bool {
	return q.Type == QuizTypePremium
}

// Question belongs to exactly one quiz. Inactive questions are excluded from
// newly resolved question sets but remain in historical attempts.
type Question struct {
	ID            string
	QuizID        string
	Text          string
	ImagePath     string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption Option
	IsActive      bool
	DisplayOrder  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates the question.
func (q *Question) Validate() error {
	if q.QuizID == "" {
		return NewValidationError("quiz ID is required")
	}
	if q.Text == "" {
		return NewValidationError("question text is required")
	}
	if q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
		return NewValidationError("all four options are required")
	}
	if _, err := ParseOption(string(q.CorrectOption)); err != nil {
		return err
	}
	return nil
}

// HasImage reports whether the question carries an image reference.
func (q *Question) HasImage() bool {
	return q.ImagePath != ""
}
