package app

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"selfquiz-service/internal/domain"
)

// Trainer builds randomized test sessions out of the question pool,
// scores submissions, and feeds outcomes into the wrong-answer tracker.
type Trainer struct {
	questions QuestionStore
	wrong     *WrongTracker
	state     SessionState
	clock     func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// SessionRequest carries the raw session parameters as submitted by the
// caller. Count arrives as text; non-numeric input falls back to the whole
// filtered pool.
type SessionRequest struct {
	Count  string
	Domain string
	Mode   domain.SessionMode
}

func NewTrainer(questions QuestionStore, wrong *WrongTracker, state SessionState) *Trainer {
	return NewTrainerWithRand(questions, wrong, state, time.Now,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewTrainerWithRand is for tests that need deterministic timestamps and
// sampling.
func NewTrainerWithRand(questions QuestionStore, wrong *WrongTracker, state SessionState, clock func() time.Time, rnd *rand.Rand) *Trainer {
	return &Trainer{
		questions: questions,
		wrong:     wrong,
		state:     state,
		clock:     clock,
		rnd:       rnd,
	}
}

// CreateSession samples a fresh test for the user and stores it as the
// active session, replacing any previous one. Review mode restricts the
// pool to questions with a current mistake record before the domain filter
// applies. The requested count is clamped into [1, len(pool)]; zero or
// unparsable input selects the whole pool.
func (t *Trainer) CreateSession(ctx context.Context, user string, req SessionRequest) (domain.TestSession, error) {
	pool, err := t.questions.LoadAll(ctx)
	if err != nil {
		return domain.TestSession{}, err
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.ModeStandard
	}
	if mode == domain.ModeReview {
		pool, err = t.wrong.ReviewPool(ctx, pool)
		if err != nil {
			return domain.TestSession{}, err
		}
	}
	if req.Domain != "" {
		filtered := pool[:0:0]
		for _, q := range pool {
			if q.Domain == req.Domain {
				filtered = append(filtered, q)
			}
		}
		pool = filtered
	}
	if len(pool) == 0 {
		return domain.TestSession{}, domain.ErrEmptyPool
	}

	count := parseCount(req.Count)
	if count == 0 {
		count = len(pool)
	}
	if count < 1 {
		count = 1
	}
	if count > len(pool) {
		count = len(pool)
	}

	session := domain.TestSession{
		Questions: t.sample(pool, count),
		CreatedAt: t.clock(),
		Mode:      mode,
	}
	if err := t.state.SetSession(ctx, user, session); err != nil {
		return domain.TestSession{}, err
	}
	return session, nil
}

// CurrentSession returns the user's in-flight test.
func (t *Trainer) CurrentSession(ctx context.Context, user string) (domain.TestSession, error) {
	session, err := t.state.Session(ctx, user)
	if err != nil {
		return domain.TestSession{}, err
	}
	if session == nil {
		return domain.TestSession{}, domain.ErrNoActiveSession
	}
	return *session, nil
}

// Submit scores the active session against the submitted answers (a map of
// question id to selected index strings, as form data delivers them),
// updates the wrong-answer records, and consumes the session. Submitting
// again without a new session reports ErrNoActiveSession.
func (t *Trainer) Submit(ctx context.Context, user string, answers map[string][]string) (domain.Results, error) {
	session, err := t.state.PopSession(ctx, user)
	if err != nil {
		return domain.Results{}, err
	}
	if session == nil {
		return domain.Results{}, domain.ErrNoActiveSession
	}

	results := domain.Results{
		PerQuestion: make([]domain.QuestionResult, 0, len(session.Questions)),
		Mode:        session.Mode,
	}
	for _, q := range session.Questions {
		selected := parseSelected(answers[q.ID])
		correctSet := append([]int(nil), q.CorrectAnswers...)
		sort.Ints(correctSet)
		correct := ExactMatch(selected, correctSet)
		if correct {
			results.CorrectCount++
		}
		if err := t.wrong.Update(ctx, q.ID, selected, correct); err != nil {
			return domain.Results{}, err
		}
		results.PerQuestion = append(results.PerQuestion, domain.QuestionResult{
			Question:       q,
			Selected:       selected,
			CorrectAnswers: correctSet,
			Correct:        correct,
		})
	}

	results.TotalQuestions = len(session.Questions)
	results.Score = SessionScore(results.CorrectCount, results.TotalQuestions)

	if err := t.state.SetResults(ctx, user, results); err != nil {
		return domain.Results{}, err
	}
	return results, nil
}

// LastResults returns the most recent submission outcome for the user.
func (t *Trainer) LastResults(ctx context.Context, user string) (domain.Results, error) {
	results, err := t.state.Results(ctx, user)
	if err != nil {
		return domain.Results{}, err
	}
	if results == nil {
		return domain.Results{}, domain.ErrNoResults
	}
	return *results, nil
}

// Questions returns the full canonical collection.
func (t *Trainer) Questions(ctx context.Context) ([]domain.Question, error) {
	return t.questions.LoadAll(ctx)
}

// Summary reports collection-level counts for dashboards: total questions,
// questions currently due for review, and the sorted distinct domains.
type Summary struct {
	QuestionCount int      `json:"question_count"`
	WrongCount    int      `json:"wrong_count"`
	Domains       []string `json:"domains"`
}

func (t *Trainer) Summary(ctx context.Context) (Summary, error) {
	questions, err := t.questions.LoadAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	records, err := t.wrong.Records(ctx)
	if err != nil {
		return Summary{}, err
	}

	seen := make(map[string]struct{})
	domains := make([]string, 0)
	for _, q := range questions {
		if _, ok := seen[q.Domain]; ok {
			continue
		}
		seen[q.Domain] = struct{}{}
		domains = append(domains, q.Domain)
	}
	sort.Strings(domains)

	return Summary{
		QuestionCount: len(questions),
		WrongCount:    len(records),
		Domains:       domains,
	}, nil
}

// ReviewQuestions pairs the review pool with its mistake records for
// rendering layers.
func (t *Trainer) ReviewQuestions(ctx context.Context) ([]domain.Question, []domain.WrongAnswer, error) {
	questions, err := t.questions.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	pool, err := t.wrong.ReviewPool(ctx, questions)
	if err != nil {
		return nil, nil, err
	}
	records, err := t.wrong.Records(ctx)
	if err != nil {
		return nil, nil, err
	}
	return pool, records, nil
}

// sample draws count questions uniformly without replacement; session
// order is the draw order, not the pool order. Every drawn question is a
// deep copy so later store mutations cannot leak into the session.
func (t *Trainer) sample(pool []domain.Question, count int) []domain.Question {
	t.rndMu.Lock()
	perm := t.rnd.Perm(len(pool))
	t.rndMu.Unlock()

	out := make([]domain.Question, 0, count)
	for _, idx := range perm[:count] {
		out = append(out, pool[idx].Clone())
	}
	return out
}

func parseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// parseSelected converts submitted index strings into a deduplicated,
// ascending selection. Unparsable entries are dropped.
func parseSelected(raw []string) []int {
	seen := make(map[int]struct{}, len(raw))
	for _, s := range raw {
		idx, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		seen[idx] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
