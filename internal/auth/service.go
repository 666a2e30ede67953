package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/locagest/locagest/internal/agents"
	"github.com/locagest/locagest/internal/shared"
)

// SessionStore mirrors login sessions in Postgres for auditing.
type SessionStore interface {
	CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// Service wraps authentication business rules.
type Service struct {
	accounts agents.Repository
	sessions SessionStore
}

func NewService(accounts agents.Repository, sessions SessionStore) *Service {
	return &Service{accounts: accounts, sessions: sessions}
}

// Authenticate validates email/password credentials. Unknown accounts,
// deactivated accounts and bad passwords all collapse into the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (agents.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return agents.Account{}, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return agents.Account{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return agents.Account{}, shared.ErrInvalidCredentials
	}
	return account, nil
}

// Account loads the profile of the given user id.
func (s *Service) Account(ctx context.Context, userID int64) (agents.Account, error) {
	return s.accounts.Get(ctx, userID)
}

// UpdateProfile changes the caller's own contact fields. Role and
// permissions are out of reach here.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, phone string) error {
	return s.accounts.UpdateProfile(ctx, userID, firstName, lastName, phone)
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.sessions.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.sessions.DeleteSession(ctx, id)
}
