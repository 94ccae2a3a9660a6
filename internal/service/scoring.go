package service

import "quizdeck/internal/domain"

// GradeResult is the verdict for a single answer.
type GradeResult struct {
	IsCorrect    bool
	PointsEarned int
}

// Grade maps a selected option against the answer key. It is a pure
// function: no hidden state, no I/O.
func Grade(selected, correct domain.Option, pointsPerQuestion int) GradeResult {
	if selected != correct {
		return GradeResult{}
	}
	return GradeResult{IsCorrect: true, PointsEarned: pointsPerQuestion}
}
