package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"starbound/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// maxArchivedEvents caps how many raw events one finish call will archive
const maxArchivedEvents = 500

// FinishResult reports the outcome of closing a session
type FinishResult struct {
	StarsTotal int    `json:"stars_total"`
	BestStars  int    `json:"best_stars"`
	RawKey     string `json:"raw_key,omitempty"`
}

// SessionService opens and closes play sessions, folds session outcomes into
// star progress, and ships raw event streams to the archive
type SessionService struct {
	gate     *ProgressionService
	sessions SessionStore
	stats    StatsStore
	archive  EventArchiver
}

// NewSessionService creates a session service
func NewSessionService(gate *ProgressionService, sessions SessionStore, stats StatsStore, archive EventArchiver) *SessionService {
	return &SessionService{gate: gate, sessions: sessions, stats: stats, archive: archive}
}

// Start opens a new play session once the entry gate allows it
func (s *SessionService) Start(userID, gameID string) (*models.PlaySession, error) {
	if err := s.gate.CanStartSession(userID, gameID); err != nil {
		return nil, err
	}
	session, err := s.sessions.CreateSession(uuid.NewString(), userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Finish closes a session the player owns, records its stars, and archives
// the raw events. A session not owned by the player, unknown, or already
// finished is reported as not found. Archive failures are tolerated; the
// session finishes with no raw key.
func (s *SessionService) Finish(ctx context.Context, userID, gameID, sessionID, reason string, summary models.SessionSummary, events []json.RawMessage) (*FinishResult, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserID != userID || session.GameID != gameID || session.IsFinished() {
		return nil, ErrSessionNotFound
	}

	if reason == "" {
		reason = "exit"
	}
	if len(events) > maxArchivedEvents {
		events = events[:maxArchivedEvents]
	}

	rawKey := ""
	if s.archive != nil {
		rawKey, err = s.archive.UploadRaw(ctx, session.GameID, userID, sessionID, events, summary.RawJSON())
		if err != nil {
			log.Printf("session %s: archive upload failed: %v", sessionID, err)
			rawKey = ""
		}
	}

	stars := summary.Stars()
	if err := s.sessions.FinishSession(sessionID, reason, summary.RawJSON(), stars, rawKey); err != nil {
		return nil, fmt.Errorf("failed to finish session: %w", err)
	}

	stats, err := s.stats.RecordStars(userID, session.GameID, stars)
	if err != nil {
		return nil, fmt.Errorf("failed to record stars: %w", err)
	}

	return &FinishResult{StarsTotal: stars, BestStars: stats.BestStars, RawKey: rawKey}, nil
}
