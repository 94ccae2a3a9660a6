package domain

import "context"

// QuizListFilter narrows the catalog listing.
type QuizListFilter struct {
	CategoryID string
	Type       QuizType
	Limit      int
	Offset     int
}

// QuizRepository provides read access to quizzes and their questions.
// The attempt engine never mutates this data.
type QuizRepository interface {
	GetQuizByID(ctx context.Context, quizID string) (*Quiz, error)
	ListActiveQuizzes(ctx context.Context, filter QuizListFilter) ([]*Quiz, int, error)
	// GetActiveQuestions returns the active questions of a quiz ordered by
	// display order ascending with ID as a stable tie-break.
	GetActiveQuestions(ctx context.Context, quizID string) ([]*Question, error)
	CountActiveQuestions(ctx context.Context, quizID string) (int, error)
	GetQuestionByID(ctx context.Context, questionID string) (*Question, error)
	// GetQuestionsByIDs returns the questions for the given IDs, including
	// ones that have since been deactivated; historical attempts keep
	// referencing them.
	GetQuestionsByIDs(ctx context.Context, questionIDs []string) ([]*Question, error)
}

// AttemptHistoryFilter narrows a user's attempt history listing.
type AttemptHistoryFilter struct {
	Status AttemptStatus
	Limit  int
	Offset int
}

// AttemptRepository owns persistence of attempts and their answer rows.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	GetAttemptByID(ctx context.Context, attemptID string) (*QuizAttempt, error)
	// UpdateAttemptIfInProgress applies the update only while the attempt is
	// still in_progress, returning false when it has already reached a
	// terminal state. This is the per-row state check that serializes
	// concurrent mutations of the same attempt.
	UpdateAttemptIfInProgress(ctx context.Context, attempt *QuizAttempt) (bool, error)
	CountCompletedAttempts(ctx context.Context, quizID string, actor Actor) (int, error)
	// GetLatestAttempt returns the actor's most recent attempt on a quiz,
	// or nil when the actor has never started it.
	GetLatestAttempt(ctx context.Context, quizID string, actor Actor) (*QuizAttempt, error)

	// UpsertAnswer creates or overwrites the single answer row for the
	// (attempt, question) pair and reports whether a new row was created.
	UpsertAnswer(ctx context.Context, answer *AttemptAnswer) (created bool, err error)
	GetAnswer(ctx context.Context, attemptID, questionID string) (*AttemptAnswer, error)
	GetAnswers(ctx context.Context, attemptID string) ([]AttemptAnswer, error)
	GetFlaggedAnswers(ctx context.Context, attemptID string) ([]AttemptAnswer, error)
	SetAnswerFlag(ctx context.Context, answerID string, flagged bool) error

	ListAttemptsByUser(ctx context.Context, userID string, filter AttemptHistoryFilter) ([]QuizAttempt, int, error)
	GetHistoryStats(ctx context.Context, userID string) (*AttemptHistoryStats, error)
}

// SubscriptionRepository is the read model behind the billing gateway.
// Plan CRUD and payment processing live outside this service.
type SubscriptionRepository interface {
	// HasActiveSubscription reports whether the user holds a subscription
	// with status "active" that has not yet passed its end date.
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
}

// TransactionManager runs a function within a database transaction carried
// through the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
