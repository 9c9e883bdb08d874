// Package file implements the storage ports on top of JSON files, the
// default persistence for a single-machine deployment.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"selfquiz-service/internal/domain"
)

const (
	questionsFile = "questions.json"
	wrongFile     = "wrong_questions.json"
)

// QuestionStore persists the question collection as one JSON array.
// A missing or unreadable file degrades to an empty collection; the store
// favors availability over strict consistency. The mutex serializes
// writers within this process only.
type QuestionStore struct {
	mu   sync.Mutex
	path string
}

func NewQuestionStore(dataDir string) *QuestionStore {
	return &QuestionStore{path: filepath.Join(dataDir, questionsFile)}
}

func (s *QuestionStore) LoadAll(_ context.Context) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[domain.Question](s.path), nil
}

func (s *QuestionStore) SaveAll(_ context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeCollection(s.path, questions)
}

// WrongAnswerStore persists mistake records as one JSON array, with the
// same degradation semantics as QuestionStore.
type WrongAnswerStore struct {
	mu   sync.Mutex
	path string
}

func NewWrongAnswerStore(dataDir string) *WrongAnswerStore {
	return &WrongAnswerStore{path: filepath.Join(dataDir, wrongFile)}
}

func (s *WrongAnswerStore) LoadAll(_ context.Context) ([]domain.WrongAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[domain.WrongAnswer](s.path), nil
}

func (s *WrongAnswerStore) SaveAll(_ context.Context, records []domain.WrongAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeCollection(s.path, records)
}

func readCollection[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func writeCollection[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
