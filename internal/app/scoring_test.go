package app_test

import (
	"testing"

	"selfquiz-service/internal/app"
)

func TestExactMatch(t *testing.T) {
	cases := []struct {
		name     string
		selected []int
		correct  []int
		want     bool
	}{
		{"exact multi", []int{0, 1}, []int{0, 1}, true},
		{"subset", []int{0}, []int{0, 1}, false},
		{"superset", []int{0, 1, 2}, []int{0, 1}, false},
		{"empty selection", nil, []int{0}, false},
		{"order irrelevant", []int{2, 0}, []int{0, 2}, true},
	}
	for _, tc := range cases {
		if got := app.ExactMatch(tc.selected, tc.correct); got != tc.want {
			t.Fatalf("%s: ExactMatch(%v, %v) = %v, want %v", tc.name, tc.selected, tc.correct, got, tc.want)
		}
	}
}

func TestSessionScore(t *testing.T) {
	if got := app.SessionScore(1, 2); got != 50.0 {
		t.Fatalf("expected 50.0, got %v", got)
	}
	if got := app.SessionScore(1, 3); got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	if got := app.SessionScore(2, 3); got != 66.67 {
		t.Fatalf("expected 66.67, got %v", got)
	}
	if got := app.SessionScore(0, 0); got != 0 {
		t.Fatalf("zero total should score 0, got %v", got)
	}
}
