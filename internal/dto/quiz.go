package dto

// QuizSummary is one row in the public quiz catalog.
type QuizSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	CategoryID     string `json:"category_id"`
	Type           string `json:"type"`
	TimeLimit      *int   `json:"time_limit,omitempty"`
	PassingScore   int    `json:"passing_score"`
	MaxAttempts    *int   `json:"max_attempts,omitempty"`
	TotalQuestions int    `json:"total_questions"`
}

// QuizListResponse is the paginated quiz catalog.
type QuizListResponse struct {
	Quizzes []QuizSummary `json:"quizzes"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// QuizDetailResponse is a single quiz plus what the current actor may do
// with it.
type QuizDetailResponse struct {
	QuizSummary
	ShuffleQuestions      bool   `json:"shuffle_questions"`
	ShowCorrectAnswers    bool   `json:"show_correct_answers"`
	PointsPerQuestion     int    `json:"points_per_question"`
	CanStart              bool                 `json:"can_start"`
	CanStartReason        string               `json:"can_start_reason,omitempty"`
	HasActiveSubscription bool                 `json:"has_active_subscription"`
	LastAttempt           *AttemptHistoryEntry `json:"last_attempt,omitempty"`
}

// AttemptHistoryEntry is one row in a user's attempt history.
type AttemptHistoryEntry struct {
	AttemptID      string  `json:"attempt_id"`
	QuizID         string  `json:"quiz_id"`
	Status         string  `json:"status"`
	Score          float64 `json:"score"`
	Passed         bool    `json:"passed"`
	TotalQuestions int     `json:"total_questions"`
	StartedAt      string  `json:"started_at"`
	CompletedAt    string  `json:"completed_at,omitempty"`
}

// HistoryStats are the aggregate figures shown alongside the history list.
type HistoryStats struct {
	TotalAttempts int     `json:"total_attempts"`
	Completed     int     `json:"completed"`
	Passed        int     `json:"passed"`
	AverageScore  float64 `json:"average_score"`
}

// HistoryResponse is the paginated attempt history for a user.
type HistoryResponse struct {
	Attempts []AttemptHistoryEntry `json:"attempts"`
	Stats    HistoryStats          `json:"stats"`
	Total    int                   `json:"total"`
	Limit    int                   `json:"limit"`
	Offset   int                   `json:"offset"`
}

// AuthClaims are the JWT claims the middleware extracts for a user.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
