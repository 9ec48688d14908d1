package service

import (
	"context"
	"encoding/json"
	"time"

	"starbound/internal/models"
)

// UserStore is the persistence surface the auth flow depends on
type UserStore interface {
	CreateUser(phone string) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	UpdateUserName(userID, name string) error
	UpsertAuthCode(phone, codeHash string, expiresAt time.Time) error
	GetAuthCode(phone string) (*models.AuthCode, error)
	DeleteAuthCode(phone string) error
	DeleteExpiredAuthCodes() error
}

// StatsStore reads and records per-game star progress
type StatsStore interface {
	GetStats(userID, gameID string) (*models.GameStats, error)
	GetAllStats(userID string) (map[string]models.GameStats, error)
	RecordStars(userID, gameID string, starsTotal int) (*models.GameStats, error)
}

// SaveStore persists per-game save blobs
type SaveStore interface {
	GetSave(userID, gameID string) (*models.Save, error)
	PutSave(userID, gameID string, payload []byte) error
	DeleteSave(userID, gameID string) error
	ListSaveGameIDs(userID string) (map[string]bool, error)
}

// ResultStore persists quiz attempts, one per user/game/test type
type ResultStore interface {
	CreateResult(result *models.TestResult) error
	GetResult(userID, gameID, testType string) (*models.TestResult, error)
	GetResults(userID string) (map[string]map[string]models.TestResult, error)
}

// SessionStore tracks play session lifecycles
type SessionStore interface {
	CreateSession(sessionID, userID, gameID string) (*models.PlaySession, error)
	GetSession(sessionID string) (*models.PlaySession, error)
	FinishSession(sessionID, reason string, summary []byte, starsTotal int, rawKey string) error
}

// CodeSender delivers one-time codes to players
type CodeSender interface {
	Send(ctx context.Context, phone, message string) error
	MockMode() bool
}

// EventArchiver stores raw session event streams
type EventArchiver interface {
	UploadRaw(ctx context.Context, gameID, userID, sessionID string, events []json.RawMessage, summary []byte) (string, error)
}
