package dto

import "time"

// QuestionView is a question as shown to a client during an attempt.
// The correct option is deliberately absent; it only ever appears in
// AnswerReview after finalization, and only when the quiz allows it.
type QuestionView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ImagePath string `json:"image_path,omitempty"`
	OptionA   string `json:"option_a"`
	OptionB   string `json:"option_b"`
	OptionC   string `json:"option_c"`
	OptionD   string `json:"option_d"`
}

// AnswerView is a recorded answer as shown to the client mid-attempt.
type AnswerView struct {
	QuestionID     string `json:"question_id"`
	SelectedOption string `json:"selected_option,omitempty"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	IsFlagged      bool   `json:"is_flagged"`
}

// StartAttemptResponse is returned when a new attempt is created.
type StartAttemptResponse struct {
	AttemptID        string         `json:"attempt_id"`
	QuizID           string         `json:"quiz_id"`
	Status           string         `json:"status"`
	TotalQuestions   int            `json:"total_questions"`
	Questions        []QuestionView `json:"questions"`
	RemainingSeconds *int           `json:"remaining_seconds"`
	StartedAt        time.Time      `json:"started_at"`
}

// RecordAnswerRequest is the body for answering one question.
type RecordAnswerRequest struct {
	QuestionID       string `json:"question_id"`
	SelectedOption   string `json:"selected_option"`
	TimeTakenSeconds *int   `json:"time_taken_seconds,omitempty"`
}

// RecordAnswerResponse reports the verdict for the one answer just recorded.
type RecordAnswerResponse struct {
	IsCorrect    bool `json:"is_correct"`
	PointsEarned int  `json:"points_earned"`
}

// ToggleFlagResponse reports the new flag state for a question.
type ToggleFlagResponse struct {
	QuestionID string `json:"question_id"`
	IsFlagged  bool   `json:"is_flagged"`
}

// AttemptStateResponse is the current view of an in-progress (or just
// lazily finalized) attempt.
type AttemptStateResponse struct {
	AttemptID         string         `json:"attempt_id"`
	QuizID            string         `json:"quiz_id"`
	Status            string         `json:"status"`
	TotalQuestions    int            `json:"total_questions"`
	AnsweredQuestions int            `json:"answered_questions"`
	RemainingSeconds  *int           `json:"remaining_seconds"`
	Questions         []QuestionView `json:"questions"`
	Answers           []AnswerView   `json:"answers"`
}

// AttemptResultResponse is the finalized outcome of an attempt.
type AttemptResultResponse struct {
	AttemptID        string     `json:"attempt_id"`
	QuizID           string     `json:"quiz_id"`
	Status           string     `json:"status"`
	Score            float64    `json:"score"`
	Passed           bool       `json:"passed"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	WrongAnswers     int        `json:"wrong_answers"`
	PointsEarned     int        `json:"points_earned"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// AnswerReview is one reviewed answer on the result page. CorrectOption is
// populated only when the quiz has show_correct_answers enabled.
type AnswerReview struct {
	QuestionID     string `json:"question_id"`
	QuestionText   string `json:"question_text"`
	SelectedOption string `json:"selected_option,omitempty"`
	CorrectOption  string `json:"correct_option,omitempty"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	IsFlagged      bool   `json:"is_flagged"`
}

// AttemptResultDetailResponse is the result plus the per-question review.
type AttemptResultDetailResponse struct {
	AttemptResultResponse
	Answers []AnswerReview `json:"answers,omitempty"`
}

// FlaggedQuestionsResponse lists the questions flagged for review.
type FlaggedQuestionsResponse struct {
	AttemptID        string   `json:"attempt_id"`
	FlaggedQuestions []string `json:"flagged_questions"`
}
