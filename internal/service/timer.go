package service

import (
	"time"

	"quizdeck/internal/domain"
)

// TimerPolicy computes remaining time for time-limited quizzes. Expiry is
// enforced lazily by the attempt service on the next interaction; there is
// no background scheduler.
type TimerPolicy struct {
	now func() time.Time
}

// NewTimerPolicy creates a TimerPolicy using the wall clock.
func NewTimerPolicy() *TimerPolicy {
	return &TimerPolicy{now: time.Now}
}

// NewTimerPolicyWithClock creates a TimerPolicy with an injected clock.
func NewTimerPolicyWithClock(now func() time.Time) *TimerPolicy {
	return &TimerPolicy{now: now}
}

// Remaining returns the seconds left for the attempt, or nil when the quiz
// has no time limit. The value can be negative once the limit has passed.
func (p *TimerPolicy) Remaining(attempt *domain.QuizAttempt, quiz *domain.Quiz) *int {
	if quiz.TimeLimitMinutes == nil {
		return nil
	}
	elapsed := int(p.now().Sub(attempt.StartedAt).Seconds())
	remaining := *quiz.TimeLimitMinutes*60 - elapsed
	return &remaining
}

// Expired reports whether the attempt has run out of time.
func (p *TimerPolicy) Expired(attempt *domain.QuizAttempt, quiz *domain.Quiz) bool {
	remaining := p.Remaining(attempt, quiz)
	return remaining != nil && *remaining <= 0
}
