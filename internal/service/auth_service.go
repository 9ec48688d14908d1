package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"starbound/internal/models"
	"starbound/internal/token"
	"starbound/internal/validation"
)

var (
	ErrCodeInvalid = errors.New("verification code is invalid")
	ErrCodeExpired = errors.New("verification code has expired")
)

const mockCode = "0000"

// AuthService runs the phone + one-time code login flow and issues bearer
// tokens on success
type AuthService struct {
	users    UserStore
	sender   CodeSender
	minter   *token.Minter
	codeTTL  time.Duration
	debugOTP bool
}

// NewAuthService creates an auth service
func NewAuthService(users UserStore, sender CodeSender, minter *token.Minter, codeTTL time.Duration, debugOTP bool) *AuthService {
	return &AuthService{
		users:    users,
		sender:   sender,
		minter:   minter,
		codeTTL:  codeTTL,
		debugOTP: debugOTP,
	}
}

// StartAuthResult is returned from StartAuth. DebugCode is set only when
// debug code echoing is enabled.
type StartAuthResult struct {
	Phone     string
	DebugCode string
}

// StartAuth generates a one-time code for the phone, stores its hash, and
// dispatches it. If dispatch fails the stored code is removed so a stale
// code cannot be verified later.
func (s *AuthService) StartAuth(ctx context.Context, rawPhone string) (*StartAuthResult, error) {
	phone, err := validation.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	code := s.generateCode()
	expiresAt := time.Now().Add(s.codeTTL)
	if err := s.users.UpsertAuthCode(phone, hashCode(code), expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store auth code: %w", err)
	}

	message := fmt.Sprintf("Код подтверждения: %s", code)
	if err := s.sender.Send(ctx, phone, message); err != nil {
		if delErr := s.users.DeleteAuthCode(phone); delErr != nil {
			return nil, fmt.Errorf("failed to roll back auth code: %w", delErr)
		}
		return nil, err
	}

	result := &StartAuthResult{Phone: phone}
	if s.debugOTP {
		result.DebugCode = code
	}
	return result, nil
}

// VerifyAuth checks the code for the phone and, on success, consumes it,
// creates the user if needed, and mints a bearer token
func (s *AuthService) VerifyAuth(ctx context.Context, rawPhone, code string) (string, *models.User, error) {
	phone, err := validation.NormalizePhone(rawPhone)
	if err != nil {
		return "", nil, err
	}

	stored, err := s.users.GetAuthCode(phone)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load auth code: %w", err)
	}
	if stored == nil {
		return "", nil, ErrCodeInvalid
	}
	if stored.IsExpired() {
		if err := s.users.DeleteAuthCode(phone); err != nil {
			return "", nil, fmt.Errorf("failed to delete expired auth code: %w", err)
		}
		return "", nil, ErrCodeExpired
	}
	if hashCode(code) != stored.CodeHash {
		return "", nil, ErrCodeInvalid
	}

	if err := s.users.DeleteAuthCode(phone); err != nil {
		return "", nil, fmt.Errorf("failed to consume auth code: %w", err)
	}

	user, err := s.users.GetUserByPhone(phone)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		user, err = s.users.CreateUser(phone)
		if err != nil {
			return "", nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	tokenString, err := s.minter.Mint(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to mint token: %w", err)
	}
	return tokenString, user, nil
}

// Authenticate verifies a bearer token and loads the user it belongs to
func (s *AuthService) Authenticate(tokenString string) (*models.User, error) {
	userID, err := s.minter.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, token.ErrInvalidToken
	}
	return user, nil
}

// GetUser loads a user by id
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	return user, nil
}

// UpdateName sets the user's display name
func (s *AuthService) UpdateName(userID, name string) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	return s.users.UpdateUserName(userID, strings.TrimSpace(name))
}

// CleanupExpiredCodes removes codes past their expiry
func (s *AuthService) CleanupExpiredCodes() error {
	return s.users.DeleteExpiredAuthCodes()
}

func (s *AuthService) generateCode() string {
	if s.sender.MockMode() {
		return mockCode
	}
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
