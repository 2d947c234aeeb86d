// Package users handles account creation and credential verification for
// the dashboard's sign-in surface.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/better-analytics/dashboard/internal/entity"
	usersgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/users"
)

// ErrEmailTaken rejects duplicate signups before hitting the unique index.
var ErrEmailTaken = errors.New("email already registered")

const bcryptCost = 10

type Service struct {
	repo *usersgorm.Repo
}

func NewService(repo *usersgorm.Repo) *Service { return &Service{repo: repo} }

// Signup creates an account with a bcrypt-hashed password.
func (s *Service) Signup(ctx context.Context, email, name, password string) (entity.Principal, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return entity.Principal{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Principal{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return entity.Principal{}, fmt.Errorf("hash password: %w", err)
	}
	u := &usersgorm.UserRecord{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return entity.Principal{}, fmt.Errorf("create user: %w", err)
	}
	return entity.Principal{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

// VerifyCredentials checks email and password. Any mismatch resolves to
// "absent"; the caller cannot tell a missing account from a bad password.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (entity.Principal, bool) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return entity.Principal{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return entity.Principal{}, false
	}
	return entity.Principal{ID: u.ID, Email: u.Email, Role: u.Role}, true
}
