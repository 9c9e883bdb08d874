// Package normalize converts loosely shaped question records into the
// canonical domain.Question form. All shape sniffing over heterogeneous
// import payloads lives here so the rest of the service only ever sees
// one representation.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"selfquiz-service/internal/domain"
)

const defaultDomain = "General"

// idDiscriminator is hashed inside the per-text namespace so derived ids
// cannot collide with ids minted for other record kinds.
const idDiscriminator = "selfquiz-question"

var (
	textKeys    = []string{"question", "text", "prompt"}
	choiceKeys  = []string{"choices", "options"}
	answerKeys  = []string{"correct_answers", "correct_answer", "answer", "answers"}
	commentKeys = []string{"comment", "explanation"}
	idKeys      = []string{"id", "uuid"}
)

// Record normalizes one raw record. Errors wrap domain.ErrInvalidQuestion;
// the caller decides whether to skip the record or abort.
func Record(raw map[string]any) (domain.Question, error) {
	text := firstString(raw, textKeys...)
	if text == "" {
		return domain.Question{}, fmt.Errorf("%w: question text is required", domain.ErrInvalidQuestion)
	}

	choices, err := choiceList(raw)
	if err != nil {
		return domain.Question{}, err
	}

	correct := CorrectAnswers(rawAnswers(raw), choices)
	if len(correct) == 0 {
		return domain.Question{}, fmt.Errorf("%w: at least one correct answer is required", domain.ErrInvalidQuestion)
	}

	dom := firstString(raw, "domain")
	if dom == "" {
		dom = defaultDomain
	}

	id := firstString(raw, idKeys...)
	if id == "" {
		id = DeriveID(text)
	}

	return domain.Question{
		ID:             id,
		Text:           text,
		Choices:        choices,
		CorrectAnswers: correct,
		Domain:         dom,
		Comment:        firstString(raw, commentKeys...),
	}, nil
}

// Batch normalizes every record in order, partitioning successes from
// failures so the import policy ("skip invalid, keep going") stays a
// decision of the caller rather than a side effect in here.
func Batch(items []map[string]any) ([]domain.Question, []error) {
	questions := make([]domain.Question, 0, len(items))
	var failures []error
	for i, item := range items {
		q, err := Record(item)
		if err != nil {
			failures = append(failures, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		questions = append(questions, q)
	}
	return questions, failures
}

// Items extracts the sequence of raw records from any accepted payload
// shape: a bare list, or an object whose "questions" or "data" field holds
// a list or a mapping (mapping keys are discarded).
func Items(payload any) ([]map[string]any, error) {
	var candidate any
	switch v := payload.(type) {
	case []any:
		candidate = v
	case map[string]any:
		if inner, ok := v["questions"]; ok && inner != nil {
			candidate = inner
		} else if inner, ok := v["data"]; ok && inner != nil {
			candidate = inner
		} else {
			return nil, domain.ErrUnsupportedFormat
		}
	default:
		return nil, domain.ErrUnsupportedFormat
	}

	if m, ok := candidate.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		// Iterate in key order so batches process deterministically.
		sort.Strings(keys)
		list := make([]any, 0, len(m))
		for _, k := range keys {
			list = append(list, m[k])
		}
		candidate = list
	}

	list, ok := candidate.([]any)
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}

	items := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		record, ok := entry.(map[string]any)
		if !ok {
			// Non-object entries are malformed records, not a malformed
			// payload; Batch reports them as failures.
			record = nil
		}
		items = append(items, record)
	}
	return items, nil
}

// CorrectAnswers resolves a scalar or list of answers against the choice
// list. Each entry may be an in-range index, a single letter, or the exact
// choice text (case-insensitive). Unresolvable entries are dropped; the
// result is deduplicated and ascending.
func CorrectAnswers(raw any, choices []string) []int {
	if raw == nil {
		return nil
	}
	entries, ok := raw.([]any)
	if !ok {
		entries = []any{raw}
	}

	lowered := make([]string, len(choices))
	for i, c := range choices {
		lowered[i] = strings.ToLower(c)
	}

	seen := make(map[int]struct{})
	for _, entry := range entries {
		idx, ok := resolveAnswer(entry, choices, lowered)
		if !ok {
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

func resolveAnswer(entry any, choices, lowered []string) (int, bool) {
	if idx, ok := intValue(entry); ok {
		if idx >= 0 && idx < len(choices) {
			return idx, true
		}
		return 0, false
	}

	s, ok := entry.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		letter := strings.ToUpper(s)[0]
		if letter >= 'A' && letter <= 'Z' {
			if idx := int(letter - 'A'); idx < len(choices) {
				return idx, true
			}
			// out of range as a letter; fall through to text matching
		}
	}
	target := strings.ToLower(s)
	for i, c := range lowered {
		if c == target {
			return i, true
		}
	}
	return 0, false
}

// DeriveID builds a stable id from the question text using a two-stage
// name-based hash: the text becomes a namespace, then a fixed discriminator
// is hashed within it. Re-importing the same un-identified text therefore
// updates the existing question instead of duplicating it.
func DeriveID(text string) string {
	ns := uuid.NewSHA1(uuid.NameSpaceDNS, []byte(strings.TrimSpace(text)))
	return uuid.NewSHA1(ns, []byte(idDiscriminator)).String()
}

func rawAnswers(raw map[string]any) any {
	for _, key := range answerKeys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		if list, ok := v.([]any); ok && len(list) == 0 {
			continue
		}
		return v
	}
	return nil
}

func choiceList(raw map[string]any) ([]string, error) {
	var value any
	for _, key := range choiceKeys {
		if v, ok := raw[key]; ok && v != nil {
			value = v
			break
		}
	}

	var list []any
	switch v := value.(type) {
	case []any:
		list = v
	case map[string]any:
		// Sort by key so a mapping yields a deterministic order.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			list = append(list, v[k])
		}
	default:
		return nil, fmt.Errorf("%w: choices must be a list with at least two options", domain.ErrInvalidQuestion)
	}

	if len(list) < 2 {
		return nil, fmt.Errorf("%w: choices must be a list with at least two options", domain.ErrInvalidQuestion)
	}
	choices := make([]string, len(list))
	for i, c := range list {
		choices[i] = stringValue(c)
	}
	return choices, nil
}

// firstString returns the first key whose value has a non-blank string
// form, trimmed. Blank values fall through to the next alias.
func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(stringValue(v)); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		if t == math.Trunc(t) {
			return int(t), true
		}
	}
	return 0, false
}
