package normalize_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"selfquiz-service/internal/domain"
	"selfquiz-service/internal/normalize"
)

func TestRecordResolvesAliases(t *testing.T) {
	raw := map[string]any{
		"prompt": "  Which port does SSH use?  ",
		"options": map[string]any{
			"b": "80",
			"a": "22",
			"c": "443",
		},
		"answer":      "A",
		"explanation": " Default SSH port. ",
	}

	q, err := normalize.Record(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.Text != "Which port does SSH use?" {
		t.Fatalf("unexpected text %q", q.Text)
	}
	if !reflect.DeepEqual(q.Choices, []string{"22", "80", "443"}) {
		t.Fatalf("expected choices sorted by mapping key, got %v", q.Choices)
	}
	if !reflect.DeepEqual(q.CorrectAnswers, []int{0}) {
		t.Fatalf("expected answer A -> index 0, got %v", q.CorrectAnswers)
	}
	if q.Domain != "General" {
		t.Fatalf("expected default domain, got %q", q.Domain)
	}
	if q.Comment != "Default SSH port." {
		t.Fatalf("unexpected comment %q", q.Comment)
	}
	if q.ID == "" {
		t.Fatalf("expected a derived id")
	}
}

func TestRecordIdempotent(t *testing.T) {
	raw := map[string]any{
		"question":        "Pick the even numbers",
		"choices":         []any{"one", "two", "three", "four"},
		"correct_answers": []any{"two", float64(3)},
		"domain":          "Math",
		"comment":         "basic parity",
	}

	first, err := normalize.Record(raw)
	if err != nil {
		t.Fatalf("first normalize: %v", err)
	}

	// Round-trip through JSON to get the raw shape a re-import would see.
	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again map[string]any
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	second, err := normalize.Record(again)
	if err != nil {
		t.Fatalf("second normalize: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalize not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestDeriveIDDeterministic(t *testing.T) {
	a := map[string]any{
		"question": "What is the CIA triad?",
		"choices":  []any{"a", "b"},
		"answer":   float64(0),
	}
	b := map[string]any{
		"question": "What is the CIA triad?",
		"choices":  []any{"x", "y", "z"},
		"answer":   float64(1),
	}

	qa, err := normalize.Record(a)
	if err != nil {
		t.Fatalf("normalize a: %v", err)
	}
	qb, err := normalize.Record(b)
	if err != nil {
		t.Fatalf("normalize b: %v", err)
	}
	if qa.ID != qb.ID {
		t.Fatalf("identical text should derive identical ids: %s vs %s", qa.ID, qb.ID)
	}

	b["question"] = "What is the CIA triad??"
	qc, err := normalize.Record(b)
	if err != nil {
		t.Fatalf("normalize c: %v", err)
	}
	if qc.ID == qa.ID {
		t.Fatalf("different text should derive different ids")
	}
}

func TestRecordKeepsExplicitID(t *testing.T) {
	raw := map[string]any{
		"uuid":     "q-42",
		"question": "Anything",
		"choices":  []any{"a", "b"},
		"answer":   float64(0),
	}
	q, err := normalize.Record(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.ID != "q-42" {
		t.Fatalf("expected explicit id kept, got %q", q.ID)
	}
}

func TestRecordFailures(t *testing.T) {
	cases := map[string]map[string]any{
		"missing text": {
			"choices": []any{"a", "b"},
			"answer":  float64(0),
		},
		"single choice": {
			"question": "q",
			"choices":  []any{"only"},
			"answer":   float64(0),
		},
		"choices not a list": {
			"question": "q",
			"choices":  "a,b,c",
			"answer":   float64(0),
		},
		"no resolvable answer": {
			"question": "q",
			"choices":  []any{"a", "b"},
			"answer":   []any{float64(9), "unknown text"},
		},
	}
	for name, raw := range cases {
		if _, err := normalize.Record(raw); !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Fatalf("%s: expected ErrInvalidQuestion, got %v", name, err)
		}
	}
}

func TestCorrectAnswersResolution(t *testing.T) {
	choices := []string{"Alpha", "Beta", "Gamma", "Delta"}

	got := normalize.CorrectAnswers([]any{
		float64(2),   // index
		"b",          // letter, case-insensitive
		" GAMMA ",    // exact text, case-insensitive
		"Z",          // letter out of range, no text match either
		float64(9),   // index out of range
		float64(1.5), // not an integer
		float64(2),   // duplicate
	}, choices)
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("expected deduplicated ascending {1,2}, got %v", got)
	}

	if got := normalize.CorrectAnswers("D", choices); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("scalar answer: expected {3}, got %v", got)
	}
	if got := normalize.CorrectAnswers(nil, choices); len(got) != 0 {
		t.Fatalf("nil answers: expected empty, got %v", got)
	}
}

func TestItemsShapes(t *testing.T) {
	record := map[string]any{"question": "q"}

	items, err := normalize.Items([]any{record})
	if err != nil || len(items) != 1 {
		t.Fatalf("bare list: items=%v err=%v", items, err)
	}

	items, err = normalize.Items(map[string]any{"questions": []any{record, record}})
	if err != nil || len(items) != 2 {
		t.Fatalf("questions field: items=%v err=%v", items, err)
	}

	items, err = normalize.Items(map[string]any{"data": map[string]any{"k2": record, "k1": record}})
	if err != nil || len(items) != 2 {
		t.Fatalf("data mapping: items=%v err=%v", items, err)
	}

	for _, payload := range []any{"not a list", float64(3), map[string]any{"other": []any{}}} {
		if _, err := normalize.Items(payload); !errors.Is(err, domain.ErrUnsupportedFormat) {
			t.Fatalf("payload %v: expected ErrUnsupportedFormat, got %v", payload, err)
		}
	}
}
