package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/repository"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidUsername = errors.New("username must be 4-16 characters long and can only contain letters, numbers, and underscores")
	ErrInvalidPassword = errors.New("password must be at least 8 characters long, contain at least one lowercase letter, one uppercase letter, one digit, and one special character")
	ErrUsernameTaken   = errors.New("username already taken")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; the distinction is never surfaced to the client.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

const bcryptCost = 10

type Service struct {
	users    repository.UserRepository
	sessions session.Store
}

func NewService(users repository.UserRepository, sessions session.Store) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
	}
}

// Register validates the credentials, creates the user with role "user" and
// establishes a session for it. Returns the new user and the session token.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	if !ValidUsername(username) {
		return nil, "", ErrInvalidUsername
	}
	if !ValidPassword(password) {
		return nil, "", ErrInvalidPassword
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		// The unique index catches the lookup/insert race.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}
	user.ID = id

	token, err := s.sessions.Create(ctx, domain.Principal{UserID: id, Role: user.Role})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return user, token, nil
}

// Login verifies the credentials and establishes a session.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, domain.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return user, token, nil
}

// Authenticate resolves a session token to its principal.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	return s.sessions.Get(ctx, token)
}

// Logout destroys the session. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
