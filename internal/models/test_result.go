package models

import "time"

// Test types gating gameplay around a game
const (
	TestEntry = "entry"
	TestExit  = "exit"
)

// ValidTestType reports whether s names a known test type
func ValidTestType(s string) bool {
	return s == TestEntry || s == TestExit
}

// TestResult is a completed quiz for (user, game, test type). Write-once:
// a second submission for the same key is rejected.
type TestResult struct {
	UserID   string
	GameID   string
	TestType string
	Score    int
	MaxScore int
	Answers  []byte
	Details  []byte
	TakenAt  time.Time
}
