package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"starbound/internal/models"
)

// in-memory store fakes for service tests

type fakeUserStore struct {
	users map[string]*models.User // by id
	codes map[string]*models.AuthCode
	next  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users: make(map[string]*models.User),
		codes: make(map[string]*models.AuthCode),
	}
}

func (f *fakeUserStore) CreateUser(phone string) (*models.User, error) {
	f.next++
	u := &models.User{UserID: fmt.Sprintf("u-%d", f.next), Phone: phone, CreatedAt: time.Now()}
	f.users[u.UserID] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByPhone(phone string) (*models.User, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByID(userID string) (*models.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserStore) UpdateUserName(userID, name string) error {
	u, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	u.Name = name
	return nil
}

func (f *fakeUserStore) UpsertAuthCode(phone, codeHash string, expiresAt time.Time) error {
	f.codes[phone] = &models.AuthCode{Phone: phone, CodeHash: codeHash, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	return nil
}

func (f *fakeUserStore) GetAuthCode(phone string) (*models.AuthCode, error) {
	return f.codes[phone], nil
}

func (f *fakeUserStore) DeleteAuthCode(phone string) error {
	delete(f.codes, phone)
	return nil
}

func (f *fakeUserStore) DeleteExpiredAuthCodes() error {
	for phone, c := range f.codes {
		if c.IsExpired() {
			delete(f.codes, phone)
		}
	}
	return nil
}

type fakeSender struct {
	mock bool
	fail error
	sent []string
}

func (f *fakeSender) Send(ctx context.Context, phone, message string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeSender) MockMode() bool { return f.mock }

type statsKey struct{ userID, gameID string }

type fakeStatsStore struct {
	stats map[statsKey]*models.GameStats
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{stats: make(map[statsKey]*models.GameStats)}
}

func (f *fakeStatsStore) GetStats(userID, gameID string) (*models.GameStats, error) {
	return f.stats[statsKey{userID, gameID}], nil
}

func (f *fakeStatsStore) GetAllStats(userID string) (map[string]models.GameStats, error) {
	out := make(map[string]models.GameStats)
	for k, v := range f.stats {
		if k.userID == userID {
			out[k.gameID] = *v
		}
	}
	return out, nil
}

func (f *fakeStatsStore) RecordStars(userID, gameID string, starsTotal int) (*models.GameStats, error) {
	key := statsKey{userID, gameID}
	s, ok := f.stats[key]
	if !ok {
		s = &models.GameStats{UserID: userID, GameID: gameID}
		f.stats[key] = s
	}
	s.LastStars = starsTotal
	if starsTotal > s.BestStars {
		s.BestStars = starsTotal
	}
	s.UpdatedAt = time.Now()
	return s, nil
}

type fakeSaveStore struct {
	saves map[statsKey][]byte
}

func newFakeSaveStore() *fakeSaveStore {
	return &fakeSaveStore{saves: make(map[statsKey][]byte)}
}

func (f *fakeSaveStore) GetSave(userID, gameID string) (*models.Save, error) {
	payload, ok := f.saves[statsKey{userID, gameID}]
	if !ok {
		return nil, nil
	}
	return &models.Save{UserID: userID, GameID: gameID, Payload: payload}, nil
}

func (f *fakeSaveStore) PutSave(userID, gameID string, payload []byte) error {
	f.saves[statsKey{userID, gameID}] = payload
	return nil
}

func (f *fakeSaveStore) DeleteSave(userID, gameID string) error {
	delete(f.saves, statsKey{userID, gameID})
	return nil
}

func (f *fakeSaveStore) ListSaveGameIDs(userID string) (map[string]bool, error) {
	out := make(map[string]bool)
	for k := range f.saves {
		if k.userID == userID {
			out[k.gameID] = true
		}
	}
	return out, nil
}

type resultKey struct{ userID, gameID, testType string }

type fakeResultStore struct {
	results map[resultKey]*models.TestResult
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{results: make(map[resultKey]*models.TestResult)}
}

func (f *fakeResultStore) CreateResult(result *models.TestResult) error {
	key := resultKey{result.UserID, result.GameID, result.TestType}
	if _, exists := f.results[key]; exists {
		return errors.New("duplicate result")
	}
	f.results[key] = result
	return nil
}

func (f *fakeResultStore) GetResult(userID, gameID, testType string) (*models.TestResult, error) {
	return f.results[resultKey{userID, gameID, testType}], nil
}

func (f *fakeResultStore) GetResults(userID string) (map[string]map[string]models.TestResult, error) {
	out := make(map[string]map[string]models.TestResult)
	for k, v := range f.results {
		if k.userID != userID {
			continue
		}
		if out[k.gameID] == nil {
			out[k.gameID] = make(map[string]models.TestResult)
		}
		out[k.gameID][k.testType] = *v
	}
	return out, nil
}

type fakeSessionStore struct {
	sessions map[string]*models.PlaySession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.PlaySession)}
}

func (f *fakeSessionStore) CreateSession(sessionID, userID, gameID string) (*models.PlaySession, error) {
	s := &models.PlaySession{
		SessionID: sessionID,
		UserID:    userID,
		GameID:    gameID,
		StartedAt: time.Now(),
		Summary:   []byte("{}"),
	}
	f.sessions[sessionID] = s
	return s, nil
}

func (f *fakeSessionStore) GetSession(sessionID string) (*models.PlaySession, error) {
	return f.sessions[sessionID], nil
}

func (f *fakeSessionStore) FinishSession(sessionID, reason string, summary []byte, starsTotal int, rawKey string) error {
	s, ok := f.sessions[sessionID]
	if !ok || s.IsFinished() {
		return errors.New("no open session")
	}
	now := time.Now()
	s.FinishedAt = &now
	s.Reason = reason
	s.Summary = summary
	s.StarsTotal = starsTotal
	s.RawKey = rawKey
	return nil
}

type fakeArchiver struct {
	fail error
	keys []string
}

func (f *fakeArchiver) UploadRaw(ctx context.Context, gameID, userID, sessionID string, events []json.RawMessage, summary []byte) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	key := fmt.Sprintf("raw/game=%s/user=%s/session=%s.jsonl", gameID, userID, sessionID)
	f.keys = append(f.keys, key)
	return key, nil
}
