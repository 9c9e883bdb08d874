package domain

import "time"

// Question is the canonical quiz item every downstream component operates on.
// Choices are referenced by index, so their order is meaningful.
type Question struct {
	ID             string   `json:"id"`
	Text           string   `json:"question"`
	Choices        []string `json:"choices"`
	CorrectAnswers []int    `json:"correct_answers"`
	Domain         string   `json:"domain"`
	Comment        string   `json:"comment"`
}

// Clone returns a deep copy so session snapshots stay isolated from
// later mutations of the backing store.
func (q Question) Clone() Question {
	out := q
	out.Choices = append([]string(nil), q.Choices...)
	out.CorrectAnswers = append([]int(nil), q.CorrectAnswers...)
	return out
}

// WrongAnswer records the uncorrected mistake history for one question.
// It holds a weak reference: the question may have been replaced since.
type WrongAnswer struct {
	QuestionID  string    `json:"question_id"`
	WrongCount  int       `json:"wrong_count"`
	LastAttempt time.Time `json:"last_attempt"`
	LastAnswer  []int     `json:"last_answer"`
}

// SessionMode distinguishes a fresh test from a mistake-review run.
type SessionMode string

const (
	ModeStandard SessionMode = "standard"
	ModeReview   SessionMode = "review"
)

// TestSession is an in-progress attempt: an immutable snapshot of the
// selected questions, fixed at creation time.
type TestSession struct {
	Questions []Question  `json:"questions"`
	CreatedAt time.Time   `json:"created_at"`
	Mode      SessionMode `json:"mode"`
}

// QuestionResult is the scored outcome for a single question.
type QuestionResult struct {
	Question       Question `json:"question"`
	Selected       []int    `json:"selected"`
	CorrectAnswers []int    `json:"correct_answers"`
	Correct        bool     `json:"is_correct"`
}

// Results summarizes a submitted session.
type Results struct {
	PerQuestion    []QuestionResult `json:"results"`
	Score          float64          `json:"score"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Mode           SessionMode      `json:"mode"`
}

// ImportStats reports the outcome of one import batch.
type ImportStats struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}
