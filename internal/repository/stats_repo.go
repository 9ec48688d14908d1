package repository

import (
	"database/sql"
	"fmt"
	"time"

	"starbound/internal/database"
	"starbound/internal/models"
)

// StatsRepository handles per-(user, game) star statistics
type StatsRepository struct {
	db *database.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats retrieves the stats row for one (user, game), or nil if the user
// has never finished a session of that game
func (r *StatsRepository) GetStats(userID, gameID string) (*models.GameStats, error) {
	query := `
		SELECT user_id, game_id, last_stars, best_stars, updated_at
		FROM game_stats
		WHERE user_id = ? AND game_id = ?
	`
	stats := &models.GameStats{}
	err := r.db.QueryRow(query, userID, gameID).Scan(
		&stats.UserID,
		&stats.GameID,
		&stats.LastStars,
		&stats.BestStars,
		&stats.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats: %w", err)
	}

	return stats, nil
}

// GetAllStats retrieves every stats row for a user, keyed by game id
func (r *StatsRepository) GetAllStats(userID string) (map[string]models.GameStats, error) {
	query := `
		SELECT user_id, game_id, last_stars, best_stars, updated_at
		FROM game_stats
		WHERE user_id = ?
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]models.GameStats)
	for rows.Next() {
		var s models.GameStats
		if err := rows.Scan(&s.UserID, &s.GameID, &s.LastStars, &s.BestStars, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game stats: %w", err)
		}
		stats[s.GameID] = s
	}

	return stats, rows.Err()
}

// RecordStars folds a finished session's star total into the stats row:
// last_stars is overwritten, best_stars keeps the running maximum
func (r *StatsRepository) RecordStars(userID, gameID string, starsTotal int) (*models.GameStats, error) {
	current, err := r.GetStats(userID, gameID)
	if err != nil {
		return nil, err
	}

	best := starsTotal
	if current != nil && current.BestStars > best {
		best = current.BestStars
	}

	upsert := r.db.Dialect.UpsertClause(
		[]string{"user_id", "game_id"},
		[]string{"last_stars", "best_stars", "updated_at"},
	)
	query := fmt.Sprintf(`
		INSERT INTO game_stats (user_id, game_id, last_stars, best_stars, updated_at)
		VALUES (?, ?, ?, ?, ?)
		%s
	`, upsert)
	now := time.Now()
	if _, err := r.db.Exec(query, userID, gameID, starsTotal, best, now); err != nil {
		return nil, fmt.Errorf("failed to record stars: %w", err)
	}

	return &models.GameStats{
		UserID:    userID,
		GameID:    gameID,
		LastStars: starsTotal,
		BestStars: best,
		UpdatedAt: now,
	}, nil
}
