// Package quiz holds the entry/exit question banks and scores submitted
// answer sets against them. Scoring is pure: it depends only on the bank and
// the submission, never on user state.
package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var ErrTestNotFound = errors.New("test not found")

// InvalidOptionError reports a submitted option id that is not part of the
// question's option list
type InvalidOptionError struct {
	QuestionID string
}

func (e InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option for question %s", e.QuestionID)
}

// InvalidPickError reports a selection whose size does not match the
// question's required pick count
type InvalidPickError struct {
	QuestionID string
	Expected   int
	Actual     int
}

func (e InvalidPickError) Error() string {
	return fmt.Sprintf("question %s expects %d selections, got %d", e.QuestionID, e.Expected, e.Actual)
}

// Option is one selectable answer of a question
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a single quiz question. Correct is never serialized to
// callers before submission.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Pick    int      `json:"pick"`
	Multi   bool     `json:"multi"`
	Options []Option `json:"options"`
	Correct []string `json:"correct,omitempty"`
}

// Bank is the ordered question list for one (game, test type) pair
type Bank struct {
	GameID    string     `json:"game_id"`
	TestType  string     `json:"test_type"`
	Questions []Question `json:"questions"`
}

// PointsPerQuestion is the per-question score ceiling regardless of pick count
const PointsPerQuestion = 2

// Result is the outcome of scoring one submission
type Result struct {
	Score    int
	MaxScore int
	// Correct maps every question id to its correct option ids, for
	// post-submission review
	Correct map[string][]string
}

// Engine looks up banks and scores submissions
type Engine struct {
	banks map[string]*Bank
}

// NewEngine builds an engine over validated banks
func NewEngine(banks []*Bank) *Engine {
	m := make(map[string]*Bank, len(banks))
	for _, b := range banks {
		m[bankKey(b.GameID, b.TestType)] = b
	}
	return &Engine{banks: m}
}

func bankKey(gameID, testType string) string {
	return gameID + "/" + testType
}

// Has reports whether a bank exists for the pair
func (e *Engine) Has(gameID, testType string) bool {
	_, ok := e.banks[bankKey(gameID, testType)]
	return ok
}

// Questions returns the bank's questions with the answer keys stripped,
// or ErrTestNotFound if no bank exists for the pair
func (e *Engine) Questions(gameID, testType string) ([]Question, error) {
	bank, ok := e.banks[bankKey(gameID, testType)]
	if !ok {
		return nil, ErrTestNotFound
	}

	stripped := make([]Question, len(bank.Questions))
	for i, q := range bank.Questions {
		q.Correct = nil
		q.Options = append([]Option(nil), q.Options...)
		stripped[i] = q
	}
	return stripped, nil
}

// Score validates and scores a submitted answer set. Answers map question
// ids to a single option id or a list of option ids; missing questions count
// as an empty selection. Single-pick questions award 2 points for the exact
// correct id; multi-pick questions award 1 point per correct id submitted.
func (e *Engine) Score(gameID, testType string, answers map[string]interface{}) (*Result, error) {
	bank, ok := e.banks[bankKey(gameID, testType)]
	if !ok {
		return nil, ErrTestNotFound
	}

	result := &Result{
		MaxScore: PointsPerQuestion * len(bank.Questions),
		Correct:  make(map[string][]string, len(bank.Questions)),
	}

	for _, q := range bank.Questions {
		result.Correct[q.ID] = append([]string(nil), q.Correct...)

		selected := normalizeSelection(answers[q.ID])

		valid := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			valid[opt.ID] = true
		}
		for _, id := range selected {
			if !valid[id] {
				return nil, InvalidOptionError{QuestionID: q.ID}
			}
		}

		if len(selected) != q.Pick {
			return nil, InvalidPickError{QuestionID: q.ID, Expected: q.Pick, Actual: len(selected)}
		}

		if q.Pick == 1 {
			if selected[0] == q.Correct[0] {
				result.Score += PointsPerQuestion
			}
			continue
		}

		correct := make(map[string]bool, len(q.Correct))
		for _, id := range q.Correct {
			correct[id] = true
		}
		for _, id := range selected {
			if correct[id] {
				result.Score++
			}
		}
	}

	return result, nil
}

// normalizeSelection coerces a submitted answer into a de-duplicated,
// deterministic-order id set: scalars become one-element sets, missing
// values empty sets
func normalizeSelection(v interface{}) []string {
	var raw []interface{}
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		raw = t
	default:
		raw = []interface{}{t}
	}

	seen := make(map[string]bool, len(raw))
	var ids []string
	for _, entry := range raw {
		id, ok := coerceID(entry)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// coerceID renders a decoded JSON scalar as an option id
func coerceID(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}
