package service

import (
	"encoding/json"
	"fmt"
	"time"

	"starbound/internal/catalog"
	"starbound/internal/models"
	"starbound/internal/quiz"
)

// TestView is what a player sees when opening a test: either the questions
// (not yet taken) or the recorded result
type TestView struct {
	GameID   string          `json:"game_id"`
	TestType string          `json:"test_type"`
	Taken    bool            `json:"taken"`
	Questions []quiz.Question `json:"questions,omitempty"`
	Result   *TestScore      `json:"result,omitempty"`
	TakenAt  *time.Time      `json:"taken_at,omitempty"`
}

// SubmitResult is returned after scoring a submission
type SubmitResult struct {
	Score    int                 `json:"score"`
	MaxScore int                 `json:"max_score"`
	Correct  map[string][]string `json:"correct"`
}

// TestService serves quiz question banks and records one scored attempt per
// player, game, and test type
type TestService struct {
	engine  *quiz.Engine
	gate    *ProgressionService
	results ResultStore
}

// NewTestService creates a test service
func NewTestService(engine *quiz.Engine, gate *ProgressionService, results ResultStore) *TestService {
	return &TestService{engine: engine, gate: gate, results: results}
}

// View returns the test questions if the player has not taken the test, or
// the prior score if they have
func (s *TestService) View(userID, gameID, testType string) (*TestView, error) {
	if !catalog.Exists(gameID) {
		return nil, ErrUnknownGame
	}
	if !models.ValidTestType(testType) || !s.engine.Has(gameID, testType) {
		return nil, quiz.ErrTestNotFound
	}

	view := &TestView{GameID: gameID, TestType: testType}

	prior, err := s.results.GetResult(userID, gameID, testType)
	if err != nil {
		return nil, fmt.Errorf("failed to load test result: %w", err)
	}
	if prior != nil {
		view.Taken = true
		view.Result = &TestScore{Score: prior.Score, MaxScore: prior.MaxScore}
		view.TakenAt = &prior.TakenAt
		return view, nil
	}

	questions, err := s.engine.Questions(gameID, testType)
	if err != nil {
		return nil, err
	}
	view.Questions = questions
	return view, nil
}

// Submit scores a player's answers and records the attempt. A test can be
// submitted once; the exit test is refused until enough stars are collected.
func (s *TestService) Submit(userID, gameID, testType string, answers map[string]interface{}) (*SubmitResult, error) {
	if !catalog.Exists(gameID) {
		return nil, ErrUnknownGame
	}
	if !models.ValidTestType(testType) || !s.engine.Has(gameID, testType) {
		return nil, quiz.ErrTestNotFound
	}

	if err := s.gate.CanSubmitTest(userID, gameID, testType); err != nil {
		return nil, err
	}

	scored, err := s.engine.Score(gameID, testType, answers)
	if err != nil {
		return nil, err
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	detailsJSON, err := json.Marshal(scored.Correct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scoring details: %w", err)
	}

	record := &models.TestResult{
		UserID:   userID,
		GameID:   gameID,
		TestType: testType,
		Score:    scored.Score,
		MaxScore: scored.MaxScore,
		Answers:  answersJSON,
		Details:  detailsJSON,
		TakenAt:  time.Now(),
	}
	if err := s.results.CreateResult(record); err != nil {
		return nil, fmt.Errorf("failed to record test result: %w", err)
	}

	return &SubmitResult{
		Score:    scored.Score,
		MaxScore: scored.MaxScore,
		Correct:  scored.Correct,
	}, nil
}
