package quiz

import (
	"embed"
	"encoding/json"
	"fmt"

	"starbound/internal/catalog"
	"starbound/internal/models"
)

//go:embed banks/*.json
var bankFiles embed.FS

// LoadBanks parses and validates the embedded question banks
func LoadBanks() ([]*Bank, error) {
	entries, err := bankFiles.ReadDir("banks")
	if err != nil {
		return nil, fmt.Errorf("failed to read bank directory: %w", err)
	}

	var banks []*Bank
	for _, entry := range entries {
		data, err := bankFiles.ReadFile("banks/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read bank %s: %w", entry.Name(), err)
		}

		var bank Bank
		if err := json.Unmarshal(data, &bank); err != nil {
			return nil, fmt.Errorf("failed to parse bank %s: %w", entry.Name(), err)
		}

		if err := ValidateBank(&bank); err != nil {
			return nil, fmt.Errorf("bank %s: %w", entry.Name(), err)
		}

		banks = append(banks, &bank)
	}

	return banks, nil
}

// ValidateBank enforces the authoring invariants scoring relies on: known
// game and test type, unique question and option ids, every correct id
// present among the options, and exactly pick correct ids per question.
func ValidateBank(bank *Bank) error {
	if !catalog.Exists(bank.GameID) {
		return fmt.Errorf("unknown game %q", bank.GameID)
	}
	if !models.ValidTestType(bank.TestType) {
		return fmt.Errorf("unknown test type %q", bank.TestType)
	}
	if len(bank.Questions) == 0 {
		return fmt.Errorf("bank has no questions")
	}

	questionIDs := make(map[string]bool, len(bank.Questions))
	for i, q := range bank.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if questionIDs[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		questionIDs[q.ID] = true

		if q.Pick < 1 {
			return fmt.Errorf("question %q has pick %d", q.ID, q.Pick)
		}
		if q.Multi != (q.Pick > 1) {
			return fmt.Errorf("question %q multi flag disagrees with pick %d", q.ID, q.Pick)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q has fewer than two options", q.ID)
		}
		if q.Pick > len(q.Options) {
			return fmt.Errorf("question %q pick %d exceeds option count %d", q.ID, q.Pick, len(q.Options))
		}

		optionIDs := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if opt.ID == "" {
				return fmt.Errorf("question %q has an option without id", q.ID)
			}
			if optionIDs[opt.ID] {
				return fmt.Errorf("question %q has duplicate option id %q", q.ID, opt.ID)
			}
			optionIDs[opt.ID] = true
		}

		if len(q.Correct) != q.Pick {
			return fmt.Errorf("question %q has %d correct ids for pick %d", q.ID, len(q.Correct), q.Pick)
		}
		seenCorrect := make(map[string]bool, len(q.Correct))
		for _, id := range q.Correct {
			if !optionIDs[id] {
				return fmt.Errorf("question %q marks unknown option %q correct", q.ID, id)
			}
			if seenCorrect[id] {
				return fmt.Errorf("question %q repeats correct id %q", q.ID, id)
			}
			seenCorrect[id] = true
		}
	}

	return nil
}
