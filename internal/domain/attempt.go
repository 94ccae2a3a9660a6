package domain

import "time"

// AttemptStatus is the state of a quiz attempt. in_progress is the only
// non-terminal state; completed and abandoned are terminal.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// IsTerminal reports whether no further transitions are permitted.
func (s AttemptStatus) IsTerminal() bool {
	return s == AttemptCompleted || s == AttemptAbandoned
}

// QuizAttempt is one actor's pass through a quiz. Exactly one of UserID and
// GuestSessionID is set; QuestionOrder is the (possibly shuffled) question-ID
// list captured at start so the displayed order stays stable for the lifetime
// of the attempt.
type QuizAttempt struct {
	ID                string
	QuizID            string
	UserID            string
	GuestSessionID    string
	Status            AttemptStatus
	QuestionOrder     []string
	TotalQuestions    int
	AnsweredQuestions int
	CorrectAnswers    int
	WrongAnswers      int
	PointsEarned      int
	Score             float64 // percentage, meaningful only when completed
	Passed            bool
	StartedAt         time.Time
	CompletedAt       *time.Time
	TimeSpentSeconds  int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Actor reconstructs the owning actor from the persisted identity columns.
func (a *QuizAttempt) Actor() Actor {
	if a.UserID != "" {
		return NewUserActor(a.UserID)
	}
	return NewGuestActor(a.GuestSessionID)
}

// IsInProgress reports whether the attempt can still be mutated.
func (a *QuizAttempt) IsInProgress() bool {
	return a.Status == AttemptInProgress
}

// AttemptAnswer is one actor's answer to one question within one attempt.
// At most one row exists per (attempt, question) pair; resubmission
// overwrites in place.
type AttemptAnswer struct {
	ID               string
	AttemptID        string
	QuestionID       string
	SelectedOption   *Option // nil until answered (placeholder rows)
	IsCorrect        bool
	PointsEarned     int
	TimeTakenSeconds *int
	IsFlagged        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AttemptStats are the totals recomputed from an attempt's answer rows.
// Deriving them from the rows rather than incrementing counters keeps the
// attempt self-healing under duplicate or concurrent submissions.
type AttemptStats struct {
	Answered     int
	Correct      int
	Wrong        int
	PointsEarned int
}

// StatsFromAnswers recomputes attempt totals from answer rows. Placeholder
// rows without a selected option do not count as answered.
func StatsFromAnswers(answers []AttemptAnswer) AttemptStats {
	var stats AttemptStats
	for _, ans := range answers {
		if ans.SelectedOption == nil {
			continue
		}
		stats.Answered++
		if ans.IsCorrect {
			stats.Correct++
		} else {
			stats.Wrong++
		}
		stats.PointsEarned += ans.PointsEarned
	}
	return stats
}

// AttemptHistoryStats are the aggregate figures shown on a user's history page.
type AttemptHistoryStats struct {
	TotalAttempts int
	Completed     int
	Passed        int
	AverageScore  float64
}
