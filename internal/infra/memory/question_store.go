package memory

import (
	"context"
	"sync"

	"selfquiz-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionStore,
// useful for tests and demos.
type QuestionStore struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionStore(questions ...domain.Question) *QuestionStore {
	store := &QuestionStore{}
	store.questions = cloneQuestions(questions)
	return store
}

func (s *QuestionStore) LoadAll(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneQuestions(s.questions), nil
}

func (s *QuestionStore) SaveAll(_ context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = cloneQuestions(questions)
	return nil
}

func cloneQuestions(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Clone())
	}
	return out
}
