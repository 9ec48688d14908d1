package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"starbound/internal/database"
	"starbound/internal/models"
)

// UserRepository handles database operations for users and pending auth codes
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user for a verified phone, with an empty name
func (r *UserRepository) CreateUser(phone string) (*models.User, error) {
	user := &models.User{
		UserID:    uuid.New().String(),
		Phone:     phone,
		Name:      "",
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO users (user_id, phone, name, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, user.UserID, user.Phone, user.Name, user.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByPhone retrieves a user by canonical phone number
func (r *UserRepository) GetUserByPhone(phone string) (*models.User, error) {
	query := `
		SELECT user_id, phone, name, created_at
		FROM users
		WHERE phone = ?
	`
	user := &models.User{}
	err := r.db.QueryRow(query, phone).Scan(
		&user.UserID,
		&user.Phone,
		&user.Name,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by id
func (r *UserRepository) GetUserByID(userID string) (*models.User, error) {
	query := `
		SELECT user_id, phone, name, created_at
		FROM users
		WHERE user_id = ?
	`
	user := &models.User{}
	err := r.db.QueryRow(query, userID).Scan(
		&user.UserID,
		&user.Phone,
		&user.Name,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateUserName updates a user's display name
func (r *UserRepository) UpdateUserName(userID, name string) error {
	query := "UPDATE users SET name = ? WHERE user_id = ?"
	if _, err := r.db.Exec(query, name, userID); err != nil {
		return fmt.Errorf("failed to update user name: %w", err)
	}
	return nil
}

// UpsertAuthCode stores a pending code hash for a phone, replacing any prior one
func (r *UserRepository) UpsertAuthCode(phone, codeHash string, expiresAt time.Time) error {
	upsert := r.db.Dialect.UpsertClause(
		[]string{"phone"},
		[]string{"code_hash", "expires_at", "created_at"},
	)
	query := fmt.Sprintf(`
		INSERT INTO auth_codes (phone, code_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?)
		%s
	`, upsert)
	if _, err := r.db.Exec(query, phone, codeHash, expiresAt, time.Now()); err != nil {
		return fmt.Errorf("failed to store auth code: %w", err)
	}
	return nil
}

// GetAuthCode retrieves the pending code for a phone
func (r *UserRepository) GetAuthCode(phone string) (*models.AuthCode, error) {
	query := `
		SELECT phone, code_hash, expires_at, created_at
		FROM auth_codes
		WHERE phone = ?
	`
	code := &models.AuthCode{}
	err := r.db.QueryRow(query, phone).Scan(
		&code.Phone,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth code: %w", err)
	}

	return code, nil
}

// DeleteAuthCode removes the pending code for a phone
func (r *UserRepository) DeleteAuthCode(phone string) error {
	query := "DELETE FROM auth_codes WHERE phone = ?"
	if _, err := r.db.Exec(query, phone); err != nil {
		return fmt.Errorf("failed to delete auth code: %w", err)
	}
	return nil
}

// DeleteExpiredAuthCodes removes all codes past their expiry
func (r *UserRepository) DeleteExpiredAuthCodes() error {
	query := "DELETE FROM auth_codes WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired auth codes: %w", err)
	}
	return nil
}
