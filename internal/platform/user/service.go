package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Fuzara/cashcraft/pkg/logger"
)

// Service handles user business logic
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new user service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.WithField("component", "user.service"),
	}
}

// Register registers a new user with a hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user := &User{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := user.ValidateEmail(); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check if user exists: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String())
	return user, nil
}

// Login authenticates a user with email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Don't reveal that the user doesn't exist
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, err
	}

	user.UpdateLastLogin()
	if err := s.repo.Update(ctx, user); err != nil {
		// Non-critical, login still succeeds
		s.logger.Warn("failed to update last login", "user_id", user.ID.String(), "error", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
