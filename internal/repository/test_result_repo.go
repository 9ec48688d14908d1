package repository

import (
	"database/sql"
	"fmt"
	"time"

	"starbound/internal/database"
	"starbound/internal/models"
)

// TestResultRepository handles completed quiz results
type TestResultRepository struct {
	db *database.DB
}

// NewTestResultRepository creates a new test result repository
func NewTestResultRepository(db *database.DB) *TestResultRepository {
	return &TestResultRepository{db: db}
}

// CreateResult inserts a result for (user, game, test type). The primary key
// makes this a plain insert: a concurrent duplicate submission fails here
// instead of silently overwriting the first result.
func (r *TestResultRepository) CreateResult(result *models.TestResult) error {
	query := `
		INSERT INTO test_results (user_id, game_id, test_type, score, max_score, answers, details, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		result.UserID,
		result.GameID,
		result.TestType,
		result.Score,
		result.MaxScore,
		result.Answers,
		result.Details,
		result.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}
	return nil
}

// GetResult retrieves the result for (user, game, test type), or nil if the
// test has not been taken
func (r *TestResultRepository) GetResult(userID, gameID, testType string) (*models.TestResult, error) {
	query := `
		SELECT user_id, game_id, test_type, score, max_score, answers, details, taken_at
		FROM test_results
		WHERE user_id = ? AND game_id = ? AND test_type = ?
	`
	result := &models.TestResult{}
	err := r.db.QueryRow(query, userID, gameID, testType).Scan(
		&result.UserID,
		&result.GameID,
		&result.TestType,
		&result.Score,
		&result.MaxScore,
		&result.Answers,
		&result.Details,
		&result.TakenAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}

	return result, nil
}

// GetResults retrieves every result a user holds, keyed by game id and test type
func (r *TestResultRepository) GetResults(userID string) (map[string]map[string]models.TestResult, error) {
	query := `
		SELECT user_id, game_id, test_type, score, max_score, answers, details, taken_at
		FROM test_results
		WHERE user_id = ?
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query test results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]map[string]models.TestResult)
	for rows.Next() {
		var res models.TestResult
		var takenAt time.Time
		if err := rows.Scan(
			&res.UserID,
			&res.GameID,
			&res.TestType,
			&res.Score,
			&res.MaxScore,
			&res.Answers,
			&res.Details,
			&takenAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test result: %w", err)
		}
		res.TakenAt = takenAt
		if results[res.GameID] == nil {
			results[res.GameID] = make(map[string]models.TestResult)
		}
		results[res.GameID][res.TestType] = res
	}

	return results, rows.Err()
}
