package app

import (
	"context"
	"sync"
	"time"

	"selfquiz-service/internal/domain"
)

// WrongTracker keeps the mistake records in step with scoring outcomes:
// a record exists for a question exactly while it has an uncorrected
// mistake. Every update is a full load-mutate-save of the backing store;
// the mutex serializes those read-modify-write cycles so overlapping
// submissions cannot silently drop each other's changes.
type WrongTracker struct {
	mu    sync.Mutex
	store WrongAnswerStore
	clock func() time.Time
}

func NewWrongTracker(store WrongAnswerStore) *WrongTracker {
	return NewWrongTrackerWithClock(store, time.Now)
}

// NewWrongTrackerWithClock allows deterministic timestamps in tests.
func NewWrongTrackerWithClock(store WrongAnswerStore, clock func() time.Time) *WrongTracker {
	return &WrongTracker{store: store, clock: clock}
}

// Update applies one scoring outcome. A correct answer removes any record
// for the question (mastery clears history); a wrong answer creates a
// record with count 1 or increments the existing one, overwriting the last
// attempt time and answer.
func (t *WrongTracker) Update(ctx context.Context, questionID string, selected []int, correct bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	if correct {
		kept := records[:0]
		removed := false
		for _, rec := range records {
			if rec.QuestionID == questionID {
				removed = true
				continue
			}
			kept = append(kept, rec)
		}
		if !removed {
			return nil
		}
		return t.store.SaveAll(ctx, kept)
	}

	now := t.clock()
	answer := append([]int(nil), selected...)
	found := false
	for i := range records {
		if records[i].QuestionID != questionID {
			continue
		}
		records[i].WrongCount++
		records[i].LastAttempt = now
		records[i].LastAnswer = answer
		found = true
		break
	}
	if !found {
		records = append(records, domain.WrongAnswer{
			QuestionID:  questionID,
			WrongCount:  1,
			LastAttempt: now,
			LastAnswer:  answer,
		})
	}
	return t.store.SaveAll(ctx, records)
}

// Records returns the current mistake records.
func (t *WrongTracker) Records(ctx context.Context) ([]domain.WrongAnswer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.LoadAll(ctx)
}

// ReviewPool filters the given questions down to those with a current
// mistake record, preserving their order.
func (t *WrongTracker) ReviewPool(ctx context.Context, questions []domain.Question) ([]domain.Question, error) {
	records, err := t.Records(ctx)
	if err != nil {
		return nil, err
	}
	due := make(map[string]struct{}, len(records))
	for _, rec := range records {
		due[rec.QuestionID] = struct{}{}
	}
	pool := make([]domain.Question, 0, len(due))
	for _, q := range questions {
		if _, ok := due[q.ID]; ok {
			pool = append(pool, q)
		}
	}
	return pool, nil
}
