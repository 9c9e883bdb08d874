package app

import (
	"context"

	"selfquiz-service/internal/domain"
)

// QuestionStore owns the persistent question collection. Semantics are
// load-everything / save-everything; implementations decide how (JSON file,
// Postgres, Redis-cached). A save fully replaces the stored collection.
type QuestionStore interface {
	LoadAll(ctx context.Context) ([]domain.Question, error)
	SaveAll(ctx context.Context, questions []domain.Question) error
}

// WrongAnswerStore owns the persistent mistake records, same whole-collection
// semantics as QuestionStore.
type WrongAnswerStore interface {
	LoadAll(ctx context.Context) ([]domain.WrongAnswer, error)
	SaveAll(ctx context.Context, records []domain.WrongAnswer) error
}

// SessionState holds the ephemeral per-user test and results state. A nil
// value with a nil error means "not set"; callers translate that into the
// appropriate domain error.
type SessionState interface {
	Session(ctx context.Context, user string) (*domain.TestSession, error)
	SetSession(ctx context.Context, user string, session domain.TestSession) error
	PopSession(ctx context.Context, user string) (*domain.TestSession, error)
	Results(ctx context.Context, user string) (*domain.Results, error)
	SetResults(ctx context.Context, user string, results domain.Results) error
}
