package service

import (
	"errors"
	"fmt"

	"starbound/internal/catalog"
	"starbound/internal/models"
)

var (
	ErrUnknownGame       = errors.New("unknown game")
	ErrEntryTestRequired = errors.New("entry test must be taken before playing")
	ErrTestAlreadyDone   = errors.New("test has already been taken")
)

// ExitLockedError is returned when a player attempts the exit test before
// collecting enough stars
type ExitLockedError struct {
	BestStars     int
	RequiredStars int
}

func (e *ExitLockedError) Error() string {
	return fmt.Sprintf("exit test locked: %d of %d stars", e.BestStars, e.RequiredStars)
}

// TestScore is a compact view of a taken quiz
type TestScore struct {
	Score    int `json:"score"`
	MaxScore int `json:"max_score"`
}

// GameDashboard summarizes one game's progress for a player
type GameDashboard struct {
	GameID          string     `json:"game_id"`
	Title           string     `json:"title"`
	MaxStars        int        `json:"max_stars"`
	LastStars       int        `json:"last_stars"`
	BestStars       int        `json:"best_stars"`
	HasSave         bool       `json:"has_save"`
	ExitThreshold   int        `json:"exit_threshold"`
	EntryTestDone   bool       `json:"entry_test_done"`
	ExitTestDone    bool       `json:"exit_test_done"`
	NeedsEntryTest  bool       `json:"needs_entry_test"`
	CanTakeExitTest bool       `json:"can_take_exit_test"`
	EntryScore      *TestScore `json:"entry_score,omitempty"`
	ExitScore       *TestScore `json:"exit_score,omitempty"`
}

// ProgressionService decides what a player may do next in each game: whether
// the entry test gates play, and whether the exit test has unlocked.
type ProgressionService struct {
	stats   StatsStore
	results ResultStore
	saves   SaveStore
	hasTest func(gameID, testType string) bool
}

// NewProgressionService creates a progression gate. hasTest reports whether
// a question bank exists for a game and test type; games without an entry
// bank are never gated.
func NewProgressionService(stats StatsStore, results ResultStore, saves SaveStore, hasTest func(gameID, testType string) bool) *ProgressionService {
	return &ProgressionService{stats: stats, results: results, saves: saves, hasTest: hasTest}
}

// NeedsEntryTest reports whether the player must take the entry test before
// starting a session. Players with recorded stars from before entry tests
// existed are not gated.
func (s *ProgressionService) NeedsEntryTest(userID, gameID string) (bool, error) {
	if !s.hasTest(gameID, models.TestEntry) {
		return false, nil
	}

	result, err := s.results.GetResult(userID, gameID, models.TestEntry)
	if err != nil {
		return false, fmt.Errorf("failed to load entry test result: %w", err)
	}
	if result != nil {
		return false, nil
	}

	// any recorded outcome, even a zero-star one, grandfathers the player
	stats, err := s.stats.GetStats(userID, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to load game stats: %w", err)
	}
	if stats != nil {
		return false, nil
	}
	return true, nil
}

// CanStartSession returns ErrEntryTestRequired when the entry gate is closed
func (s *ProgressionService) CanStartSession(userID, gameID string) error {
	if !catalog.Exists(gameID) {
		return ErrUnknownGame
	}
	needed, err := s.NeedsEntryTest(userID, gameID)
	if err != nil {
		return err
	}
	if needed {
		return ErrEntryTestRequired
	}
	return nil
}

// CanSubmitTest checks whether the player may submit answers for a test.
// Each test can be taken once; the exit test additionally requires half the
// game's stars.
func (s *ProgressionService) CanSubmitTest(userID, gameID, testType string) error {
	result, err := s.results.GetResult(userID, gameID, testType)
	if err != nil {
		return fmt.Errorf("failed to load test result: %w", err)
	}
	if result != nil {
		return ErrTestAlreadyDone
	}

	if testType == models.TestExit {
		stats, err := s.stats.GetStats(userID, gameID)
		if err != nil {
			return fmt.Errorf("failed to load game stats: %w", err)
		}
		best := 0
		if stats != nil {
			best = stats.BestStars
		}
		required := catalog.ExitThreshold(gameID)
		if best < required {
			return &ExitLockedError{BestStars: best, RequiredStars: required}
		}
	}
	return nil
}

// Dashboard computes the per-game progress board for a player, covering
// every game in the catalog
func (s *ProgressionService) Dashboard(userID string) ([]GameDashboard, error) {
	allStats, err := s.stats.GetAllStats(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	allResults, err := s.results.GetResults(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test results: %w", err)
	}
	saveIDs, err := s.saves.ListSaveGameIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	games := catalog.Games()
	board := make([]GameDashboard, 0, len(games))
	for _, game := range games {
		entry := GameDashboard{
			GameID:        game.GameID,
			Title:         game.Title,
			MaxStars:      game.MaxStars,
			HasSave:       saveIDs[game.GameID],
			ExitThreshold: catalog.ExitThreshold(game.GameID),
		}

		stats, played := allStats[game.GameID]
		if played {
			entry.LastStars = stats.LastStars
			entry.BestStars = stats.BestStars
		}

		results := allResults[game.GameID]
		if r, ok := results[models.TestEntry]; ok {
			entry.EntryTestDone = true
			entry.EntryScore = &TestScore{Score: r.Score, MaxScore: r.MaxScore}
		}
		if r, ok := results[models.TestExit]; ok {
			entry.ExitTestDone = true
			entry.ExitScore = &TestScore{Score: r.Score, MaxScore: r.MaxScore}
		}

		entry.NeedsEntryTest = s.hasTest(game.GameID, models.TestEntry) &&
			!entry.EntryTestDone && !played
		entry.CanTakeExitTest = s.hasTest(game.GameID, models.TestExit) &&
			!entry.ExitTestDone && entry.BestStars >= entry.ExitThreshold

		board = append(board, entry)
	}
	return board, nil
}
