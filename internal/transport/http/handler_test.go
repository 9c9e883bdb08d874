package http

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"selfquiz-service/internal/app"
	"selfquiz-service/internal/domain"
	"selfquiz-service/internal/infra/memory"
)

func TestImportAndTestFlow(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	// Import two questions in different domains.
	stats := postJSON[domain.ImportStats](t, server, "/import", map[string]any{
		"questions": []any{
			rawQuestion("First question", "A"),
			rawQuestion("Second question", "B"),
		},
	}, http.StatusOK)
	if stats.Imported != 2 || stats.Updated != 0 {
		t.Fatalf("unexpected import stats %+v", stats)
	}

	summary := getJSON[app.Summary](t, server, "/summary", http.StatusOK)
	if summary.QuestionCount != 2 || len(summary.Domains) != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	// Create a domain-filtered session.
	session := postJSON[domain.TestSession](t, server, "/sessions", map[string]any{
		"count":  "5",
		"domain": "A",
	}, http.StatusCreated)
	if len(session.Questions) != 1 || session.Questions[0].Domain != "A" {
		t.Fatalf("unexpected session %+v", session)
	}

	current := getJSON[domain.TestSession](t, server, "/sessions/current", http.StatusOK)
	if len(current.Questions) != 1 {
		t.Fatalf("expected the session to be viewable, got %+v", current)
	}

	// Submit a wrong answer.
	results := postJSON[domain.Results](t, server, "/sessions/submit", map[string]any{
		"answers": map[string]any{
			session.Questions[0].ID: []any{"0"},
		},
	}, http.StatusOK)
	if results.Score != 0 || results.TotalQuestions != 1 {
		t.Fatalf("unexpected results %+v", results)
	}

	// The mistake shows up in the review listing.
	review := getJSON[reviewResponse](t, server, "/review", http.StatusOK)
	if len(review.Questions) != 1 || len(review.Records) != 1 || review.Records[0].WrongCount != 1 {
		t.Fatalf("unexpected review state %+v", review)
	}

	// Results stay readable, the session does not.
	_ = getJSON[domain.Results](t, server, "/results", http.StatusOK)
	resp, err := http.Get(server.URL + "/sessions/current")
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for consumed session, got %d", resp.StatusCode)
	}
}

func TestImportRejectsBadPayloads(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Post(server.URL+"/import", "application/json", bytes.NewBufferString(`{"nope": 1}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported shape, got %d", resp.StatusCode)
	}

	resp, err = http.Post(server.URL+"/import", "application/json", bytes.NewBufferString("not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid JSON, got %d", resp.StatusCode)
	}
}

func TestSessionEndpointsWithoutState(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	for _, path := range []string{"/sessions/current", "/results"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}

	// Creating a session over an empty store reports an empty pool.
	body, _ := json.Marshal(map[string]any{})
	resp, err := http.Post(server.URL+"/sessions", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for empty pool, got %d", resp.StatusCode)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewQuestionStore()
	tracker := app.NewWrongTracker(memory.NewWrongAnswerStore())
	trainer := app.NewTrainerWithRand(store, tracker, memory.NewSessionState(),
		time.Now, rand.New(rand.NewSource(1)))
	handler := NewHandler(trainer, app.NewImporter(store))

	mux := http.NewServeMux()
	handler.Register(mux)
	return httptest.NewServer(mux)
}

func rawQuestion(text, dom string) map[string]any {
	return map[string]any{
		"question": text,
		"choices":  []any{"choice one", "choice two"},
		"answer":   "B",
		"domain":   dom,
	}
}

func postJSON[T any](t *testing.T, server *httptest.Server, path string, payload any, wantStatus int) T {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(server.URL+path, "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("post %s: expected %d, got %d", path, wantStatus, resp.StatusCode)
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return out
}

func getJSON[T any](t *testing.T, server *httptest.Server, path string, wantStatus int) T {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("get %s: expected %d, got %d", path, wantStatus, resp.StatusCode)
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return out
}

