package memory

import (
	"context"
	"sync"

	"selfquiz-service/internal/domain"
)

// WrongAnswerStore is an in-memory implementation of app.WrongAnswerStore.
type WrongAnswerStore struct {
	mu      sync.RWMutex
	records []domain.WrongAnswer
}

func NewWrongAnswerStore() *WrongAnswerStore {
	return &WrongAnswerStore{}
}

func (s *WrongAnswerStore) LoadAll(_ context.Context) ([]domain.WrongAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records), nil
}

func (s *WrongAnswerStore) SaveAll(_ context.Context, records []domain.WrongAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cloneRecords(records)
	return nil
}

func cloneRecords(records []domain.WrongAnswer) []domain.WrongAnswer {
	out := make([]domain.WrongAnswer, 0, len(records))
	for _, rec := range records {
		rec.LastAnswer = append([]int(nil), rec.LastAnswer...)
		out = append(out, rec)
	}
	return out
}
