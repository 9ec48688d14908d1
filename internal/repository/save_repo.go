package repository

import (
	"database/sql"
	"fmt"
	"time"

	"starbound/internal/database"
	"starbound/internal/models"
)

// SaveRepository handles per-(user, game) save blobs
type SaveRepository struct {
	db *database.DB
}

// NewSaveRepository creates a new save repository
func NewSaveRepository(db *database.DB) *SaveRepository {
	return &SaveRepository{db: db}
}

// GetSave retrieves the save for one (user, game), or nil if none exists
func (r *SaveRepository) GetSave(userID, gameID string) (*models.Save, error) {
	query := `
		SELECT user_id, game_id, payload, updated_at
		FROM saves
		WHERE user_id = ? AND game_id = ?
	`
	save := &models.Save{}
	err := r.db.QueryRow(query, userID, gameID).Scan(
		&save.UserID,
		&save.GameID,
		&save.Payload,
		&save.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get save: %w", err)
	}

	return save, nil
}

// PutSave creates or overwrites the save for one (user, game)
func (r *SaveRepository) PutSave(userID, gameID string, payload []byte) error {
	upsert := r.db.Dialect.UpsertClause(
		[]string{"user_id", "game_id"},
		[]string{"payload", "updated_at"},
	)
	query := fmt.Sprintf(`
		INSERT INTO saves (user_id, game_id, payload, updated_at)
		VALUES (?, ?, ?, ?)
		%s
	`, upsert)
	if _, err := r.db.Exec(query, userID, gameID, payload, time.Now()); err != nil {
		return fmt.Errorf("failed to put save: %w", err)
	}
	return nil
}

// DeleteSave removes the save for one (user, game)
func (r *SaveRepository) DeleteSave(userID, gameID string) error {
	query := "DELETE FROM saves WHERE user_id = ? AND game_id = ?"
	if _, err := r.db.Exec(query, userID, gameID); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

// ListSaveGameIDs returns the game ids for which a user holds a save
func (r *SaveRepository) ListSaveGameIDs(userID string) (map[string]bool, error) {
	query := "SELECT game_id FROM saves WHERE user_id = ?"
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saves: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var gameID string
		if err := rows.Scan(&gameID); err != nil {
			return nil, fmt.Errorf("failed to scan save row: %w", err)
		}
		ids[gameID] = true
	}

	return ids, rows.Err()
}
