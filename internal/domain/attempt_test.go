package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor(t *testing.T) {
	t.Run("exactly one identity must be set", func(t *testing.T) {
		assert.NoError(t, NewUserActor("user-1").Validate())
		assert.NoError(t, NewGuestActor("guest-1").Validate())
		assert.Error(t, Actor{}.Validate())
	})

	t.Run("ownership matches the identity kind", func(t *testing.T) {
		userAttempt := &QuizAttempt{UserID: "user-1"}
		guestAttempt := &QuizAttempt{GuestSessionID: "guest-1"}

		assert.True(t, NewUserActor("user-1").Owns(userAttempt))
		assert.False(t, NewUserActor("user-2").Owns(userAttempt))
		assert.True(t, NewGuestActor("guest-1").Owns(guestAttempt))
		assert.False(t, NewGuestActor("guest-2").Owns(guestAttempt))

		// A guest session that happens to equal a user id owns nothing.
		assert.False(t, NewGuestActor("user-1").Owns(userAttempt))
		assert.False(t, NewUserActor("guest-1").Owns(guestAttempt))
		assert.False(t, NewUserActor("user-1").Owns(nil))
	})
}

func TestAttemptStatus(t *testing.T) {
	assert.False(t, AttemptInProgress.IsTerminal())
	assert.True(t, AttemptCompleted.IsTerminal())
	assert.True(t, AttemptAbandoned.IsTerminal())
}

func TestStatsFromAnswers(t *testing.T) {
	a := OptionA
	b := OptionB

	t.Run("placeholder rows do not count as answered", func(t *testing.T) {
		answers := []AttemptAnswer{
			{SelectedOption: &a, IsCorrect: true, PointsEarned: 2},
			{SelectedOption: &b, IsCorrect: false},
			{SelectedOption: nil, IsFlagged: true},
		}

		stats := StatsFromAnswers(answers)
		assert.Equal(t, 2, stats.Answered)
		assert.Equal(t, 1, stats.Correct)
		assert.Equal(t, 1, stats.Wrong)
		assert.Equal(t, 2, stats.PointsEarned)
	})

	t.Run("empty input yields zero stats", func(t *testing.T) {
		assert.Equal(t, AttemptStats{}, StatsFromAnswers(nil))
	})
}
