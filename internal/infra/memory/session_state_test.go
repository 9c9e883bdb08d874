package memory

import (
	"context"
	"testing"
	"time"

	"selfquiz-service/internal/domain"
)

func TestSessionStateLifecycle(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState()

	if session, _ := state.Session(ctx, "u1"); session != nil {
		t.Fatalf("expected no session initially")
	}

	test := domain.TestSession{
		CreatedAt: time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC),
		Mode:      domain.ModeStandard,
	}
	if err := state.SetSession(ctx, "u1", test); err != nil {
		t.Fatalf("set: %v", err)
	}
	if session, _ := state.Session(ctx, "u1"); session == nil || !session.CreatedAt.Equal(test.CreatedAt) {
		t.Fatalf("expected stored session back, got %+v", session)
	}

	// Other users are isolated.
	if session, _ := state.Session(ctx, "u2"); session != nil {
		t.Fatalf("expected u2 to have no session")
	}

	popped, err := state.PopSession(ctx, "u1")
	if err != nil || popped == nil {
		t.Fatalf("pop: session=%v err=%v", popped, err)
	}
	if again, _ := state.PopSession(ctx, "u1"); again != nil {
		t.Fatalf("expected pop to consume the session")
	}
}

func TestResultsState(t *testing.T) {
	ctx := context.Background()
	state := NewSessionState()

	if results, _ := state.Results(ctx, "u1"); results != nil {
		t.Fatalf("expected no results initially")
	}
	if err := state.SetResults(ctx, "u1", domain.Results{Score: 75}); err != nil {
		t.Fatalf("set: %v", err)
	}
	results, _ := state.Results(ctx, "u1")
	if results == nil || results.Score != 75 {
		t.Fatalf("expected stored results, got %+v", results)
	}
}
