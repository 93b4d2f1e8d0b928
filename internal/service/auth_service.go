package service

import (
	"context"
	"fmt"
	"time"

	"credential-market/internal/core/domain"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
	}
}

// Register creates a new user account and returns a signed token.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (string, error) {
	// Check login/email uniqueness
	existing, err := s.userRepo.GetByLoginOrEmail(ctx, req.Login, req.Email)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("check uniqueness: %w", err))
	}
	if existing != nil {
		return "", apperror.ErrUserExists()
	}

	// Hash password with Argon2id
	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Login:        req.Login,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		Balance:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	token, _, err := s.tokenSvc.Generate(user)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, nil
}

// Login validates credentials and returns a signed token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return "", apperror.ErrInvalidCredentials()
	}

	// Verify password
	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", apperror.ErrInvalidCredentials()
	}

	if user.IsBlocked() {
		return "", apperror.ErrAccountBlocked()
	}

	token, _, err := s.tokenSvc.Generate(user)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, nil
}

// Refresh re-issues a token for an authenticated user, picking up any
// role change since the current token was minted.
func (s *AuthServiceImpl) Refresh(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return "", apperror.ErrNotFound("user")
	}
	if user.IsBlocked() {
		return "", apperror.ErrAccountBlocked()
	}

	token, _, err := s.tokenSvc.Generate(user)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, nil
}
