package service

import (
	"errors"
	"testing"
	"time"

	"starbound/internal/models"
)

func alwaysHasTests(gameID, testType string) bool { return true }

func newTestProgression(stats *fakeStatsStore, results *fakeResultStore, saves *fakeSaveStore) *ProgressionService {
	return NewProgressionService(stats, results, saves, alwaysHasTests)
}

func recordEntryResult(results *fakeResultStore, userID, gameID string) {
	results.results[resultKey{userID, gameID, models.TestEntry}] = &models.TestResult{
		UserID: userID, GameID: gameID, TestType: models.TestEntry,
		Score: 8, MaxScore: 10, TakenAt: time.Now(),
	}
}

func TestNeedsEntryTest(t *testing.T) {
	stats := newFakeStatsStore()
	results := newFakeResultStore()
	svc := newTestProgression(stats, results, newFakeSaveStore())

	needed, err := svc.NeedsEntryTest("u-1", "parabola")
	if err != nil {
		t.Fatalf("NeedsEntryTest failed: %v", err)
	}
	if !needed {
		t.Error("new player should be gated by the entry test")
	}

	// a recorded result opens the gate
	recordEntryResult(results, "u-1", "parabola")
	needed, _ = svc.NeedsEntryTest("u-1", "parabola")
	if needed {
		t.Error("entry test still required after taking it")
	}

	// players with outcomes from before entry tests existed are not gated,
	// even zero-star ones
	stats.RecordStars("u-2", "parabola", 0)
	needed, _ = svc.NeedsEntryTest("u-2", "parabola")
	if needed {
		t.Error("player with a prior recorded outcome should not be gated")
	}
}

func TestNeedsEntryTestWithoutBank(t *testing.T) {
	svc := NewProgressionService(newFakeStatsStore(), newFakeResultStore(), newFakeSaveStore(),
		func(gameID, testType string) bool { return false })

	needed, err := svc.NeedsEntryTest("u-1", "parabola")
	if err != nil {
		t.Fatalf("NeedsEntryTest failed: %v", err)
	}
	if needed {
		t.Error("games without an entry bank must not be gated")
	}
}

func TestCanStartSession(t *testing.T) {
	stats := newFakeStatsStore()
	results := newFakeResultStore()
	svc := newTestProgression(stats, results, newFakeSaveStore())

	if err := svc.CanStartSession("u-1", "no_such_game"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("unknown game returned %v, want ErrUnknownGame", err)
	}
	if err := svc.CanStartSession("u-1", "parabola"); !errors.Is(err, ErrEntryTestRequired) {
		t.Errorf("gated start returned %v, want ErrEntryTestRequired", err)
	}

	recordEntryResult(results, "u-1", "parabola")
	if err := svc.CanStartSession("u-1", "parabola"); err != nil {
		t.Errorf("start after entry test returned %v", err)
	}
}

func TestCanSubmitTest(t *testing.T) {
	stats := newFakeStatsStore()
	results := newFakeResultStore()
	svc := newTestProgression(stats, results, newFakeSaveStore())

	// entry: open until taken
	if err := svc.CanSubmitTest("u-1", "parabola", models.TestEntry); err != nil {
		t.Errorf("first entry submit blocked: %v", err)
	}
	recordEntryResult(results, "u-1", "parabola")
	if err := svc.CanSubmitTest("u-1", "parabola", models.TestEntry); !errors.Is(err, ErrTestAlreadyDone) {
		t.Errorf("repeat entry submit returned %v, want ErrTestAlreadyDone", err)
	}

	// exit: locked below half the stars (parabola needs 9 of 18)
	stats.RecordStars("u-1", "parabola", 8)
	err := svc.CanSubmitTest("u-1", "parabola", models.TestExit)
	var lockErr *ExitLockedError
	if !errors.As(err, &lockErr) {
		t.Fatalf("locked exit returned %v, want ExitLockedError", err)
	}
	if lockErr.BestStars != 8 || lockErr.RequiredStars != 9 {
		t.Errorf("lock reported %d/%d, want 8/9", lockErr.BestStars, lockErr.RequiredStars)
	}

	// reaching the threshold unlocks it exactly once
	stats.RecordStars("u-1", "parabola", 9)
	if err := svc.CanSubmitTest("u-1", "parabola", models.TestExit); err != nil {
		t.Errorf("unlocked exit submit blocked: %v", err)
	}
	results.results[resultKey{"u-1", "parabola", models.TestExit}] = &models.TestResult{
		UserID: "u-1", GameID: "parabola", TestType: models.TestExit, TakenAt: time.Now(),
	}
	if err := svc.CanSubmitTest("u-1", "parabola", models.TestExit); !errors.Is(err, ErrTestAlreadyDone) {
		t.Errorf("repeat exit submit returned %v, want ErrTestAlreadyDone", err)
	}
}

func TestDashboard(t *testing.T) {
	stats := newFakeStatsStore()
	results := newFakeResultStore()
	saves := newFakeSaveStore()
	svc := newTestProgression(stats, results, saves)

	recordEntryResult(results, "u-1", "parabola")
	stats.RecordStars("u-1", "parabola", 12)
	stats.RecordStars("u-1", "parabola", 10)
	saves.PutSave("u-1", "parabola", []byte(`{"level": 3}`))

	board, err := svc.Dashboard("u-1")
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	byGame := make(map[string]GameDashboard, len(board))
	for _, g := range board {
		byGame[g.GameID] = g
	}

	p, ok := byGame["parabola"]
	if !ok {
		t.Fatal("dashboard is missing parabola")
	}
	if p.LastStars != 10 || p.BestStars != 12 {
		t.Errorf("parabola stars = %d/%d, want last 10 best 12", p.LastStars, p.BestStars)
	}
	if !p.HasSave {
		t.Error("parabola should report a save")
	}
	if p.MaxStars != 18 || p.ExitThreshold != 9 {
		t.Errorf("parabola limits = %d/%d, want 18/9", p.MaxStars, p.ExitThreshold)
	}
	if !p.EntryTestDone || p.EntryScore == nil || p.EntryScore.Score != 8 {
		t.Errorf("parabola entry test = %v/%+v, want done with score 8", p.EntryTestDone, p.EntryScore)
	}
	if p.ExitTestDone {
		t.Error("parabola exit test should not be done")
	}
	if p.NeedsEntryTest {
		t.Error("parabola entry gate should be open")
	}
	if !p.CanTakeExitTest {
		t.Error("parabola exit test should be available at 12 of 18 stars")
	}

	b, ok := byGame["balancer"]
	if !ok {
		t.Fatal("dashboard is missing balancer")
	}
	if !b.NeedsEntryTest {
		t.Error("untouched balancer should be gated")
	}
	if b.CanTakeExitTest {
		t.Error("untouched balancer exit test should be locked")
	}
	if b.HasSave {
		t.Error("untouched balancer should have no save")
	}
}
