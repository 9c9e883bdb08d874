package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"selfquiz-service/internal/domain"
)

func TestQuestionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(t.TempDir())

	questions := []domain.Question{
		{
			ID:             "q-1",
			Text:           "What is 2 + 2?",
			Choices:        []string{"3", "4"},
			CorrectAnswers: []int{1},
			Domain:         "Math",
		},
	}
	if err := store.SaveAll(ctx, questions); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "q-1" || loaded[0].Choices[1] != "4" {
		t.Fatalf("unexpected round trip %+v", loaded)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := NewQuestionStore(filepath.Join(t.TempDir(), "nope"))
	questions, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected empty collection, got %+v", questions)
	}
}

func TestLoadCorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, questionsFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewQuestionStore(dir)
	questions, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected corrupt file to read as empty, got %+v", questions)
	}
}

func TestWrongAnswerStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewWrongAnswerStore(t.TempDir())

	records := []domain.WrongAnswer{
		{
			QuestionID:  "q-1",
			WrongCount:  2,
			LastAttempt: time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC),
			LastAnswer:  []int{0, 2},
		},
	}
	if err := store.SaveAll(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].WrongCount != 2 || !loaded[0].LastAttempt.Equal(records[0].LastAttempt) {
		t.Fatalf("unexpected round trip %+v", loaded)
	}
}
