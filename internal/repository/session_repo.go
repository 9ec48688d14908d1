package repository

import (
	"database/sql"
	"fmt"
	"time"

	"starbound/internal/database"
	"starbound/internal/models"
)

// SessionRepository handles play session records
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession writes a new open session row
func (r *SessionRepository) CreateSession(sessionID, userID, gameID string) (*models.PlaySession, error) {
	session := &models.PlaySession{
		SessionID: sessionID,
		UserID:    userID,
		GameID:    gameID,
		StartedAt: time.Now(),
		Summary:   []byte("{}"),
	}

	query := `
		INSERT INTO play_sessions (session_id, user_id, game_id, started_at, reason, summary, stars_total, raw_key)
		VALUES (?, ?, ?, ?, '', '{}', 0, '')
	`
	if _, err := r.db.Exec(query, session.SessionID, session.UserID, session.GameID, session.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetSession retrieves a session by id, or nil if it does not exist
func (r *SessionRepository) GetSession(sessionID string) (*models.PlaySession, error) {
	query := `
		SELECT session_id, user_id, game_id, started_at, finished_at, reason, summary, stars_total, raw_key
		FROM play_sessions
		WHERE session_id = ?
	`
	session := &models.PlaySession{}
	var finishedAt sql.NullTime

	err := r.db.QueryRow(query, sessionID).Scan(
		&session.SessionID,
		&session.UserID,
		&session.GameID,
		&session.StartedAt,
		&finishedAt,
		&session.Reason,
		&session.Summary,
		&session.StarsTotal,
		&session.RawKey,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if finishedAt.Valid {
		session.FinishedAt = &finishedAt.Time
	}

	return session, nil
}

// FinishSession records the terminal state of a session. Only an open
// session transitions; finishing an already-finished session affects no rows.
func (r *SessionRepository) FinishSession(sessionID, reason string, summary []byte, starsTotal int, rawKey string) error {
	query := `
		UPDATE play_sessions
		SET finished_at = ?, reason = ?, summary = ?, stars_total = ?, raw_key = ?
		WHERE session_id = ? AND finished_at IS NULL
	`
	if _, err := r.db.Exec(query, time.Now(), reason, summary, starsTotal, rawKey, sessionID); err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return nil
}
