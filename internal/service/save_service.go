package service

import (
	"fmt"

	"starbound/internal/catalog"
	"starbound/internal/models"
)

// SaveService stores one opaque save blob per player and game
type SaveService struct {
	saves SaveStore
}

// NewSaveService creates a save service
func NewSaveService(saves SaveStore) *SaveService {
	return &SaveService{saves: saves}
}

// Get returns the player's save for a game, or nil when none exists
func (s *SaveService) Get(userID, gameID string) (*models.Save, error) {
	if !catalog.Exists(gameID) {
		return nil, ErrUnknownGame
	}
	save, err := s.saves.GetSave(userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load save: %w", err)
	}
	return save, nil
}

// Put replaces the player's save for a game
func (s *SaveService) Put(userID, gameID string, payload []byte) error {
	if !catalog.Exists(gameID) {
		return ErrUnknownGame
	}
	if err := s.saves.PutSave(userID, gameID, payload); err != nil {
		return fmt.Errorf("failed to store save: %w", err)
	}
	return nil
}

// Delete removes the player's save for a game. Deleting a missing save is
// not an error.
func (s *SaveService) Delete(userID, gameID string) error {
	if !catalog.Exists(gameID) {
		return ErrUnknownGame
	}
	if err := s.saves.DeleteSave(userID, gameID); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}
