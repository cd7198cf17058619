package service

import (
	"context"
	"errors"
	"fmt"

	"employee_roster/internal/domain"
	"employee_roster/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Role     string `validate:"required,oneof=admin employee"`
}

// CredentialStore registers accounts and verifies passwords.
type CredentialStore struct {
	repo     UserRepository
	hashCost int
	validate *validator.Validate
	log      *zap.Logger
}

func NewCredentialStore(repo UserRepository, hashCost int, log *zap.Logger) *CredentialStore {
	return &CredentialStore{repo: repo, hashCost: hashCost, validate: newValidator(), log: log}
}

// Register fails with ErrDuplicateIdentity when the username is taken.
func (s *CredentialStore) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if role, ok := utils.ParseRole(in.Role); ok {
		in.Role = string(role)
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	exists, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateIdentity
	}

	hashedPassword, err := utils.HashPassword(in.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username: in.Username,
		Password: hashedPassword,
		Role:     domain.Role(in.Role),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("Account registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Verify fails with ErrNotFound for an unknown username and with
// ErrInvalidCredential when the password does not match.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := utils.VerifyPassword(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredential
	}
	return user, nil
}
