package service

import (
	"context"
	"math/rand"

	"quizdeck/internal/domain"
)

// QuestionSetResolver builds the question list an attempt starts with:
// active questions only, ordered by display order (the repository applies
// the stable ID tie-break), shuffled fresh per call when the quiz asks for
// it. The resolved order is captured on the attempt by the caller and never
// re-resolved mid-attempt.
type QuestionSetResolver interface {
	Resolve(ctx context.Context, quiz *domain.Quiz) ([]*domain.Question, error)
}

type questionSetResolver struct {
	quizRepo domain.QuizRepository
	shuffle  func(n int, swap func(i, j int))
}

// NewQuestionSetResolver creates a resolver using math/rand for shuffling.
func NewQuestionSetResolver(quizRepo domain.QuizRepository) QuestionSetResolver {
	return &questionSetResolver{
		quizRepo: quizRepo,
		shuffle:  rand.Shuffle,
	}
}

// NewQuestionSetResolverWithShuffle creates a resolver with an injected
// shuffle, used by tests to pin the permutation.
func NewQuestionSetResolverWithShuffle(quizRepo domain.QuizRepository, shuffle func(n int, swap func(i, j int))) QuestionSetResolver {
	return &questionSetResolver{
		quizRepo: quizRepo,
		shuffle:  shuffle,
	}
}

func (r *questionSetResolver) Resolve(ctx context.Context, quiz *domain.Quiz) ([]*domain.Question, error) {
	questions, err := r.quizRepo.GetActiveQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load questions", err)
	}

	if quiz.ShuffleQuestions {
		r.shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	return questions, nil
}
