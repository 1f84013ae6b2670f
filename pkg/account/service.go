// Package account manages registered users and their sessions.
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jordanlanch/referralhub/pkg/auth"
	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/metrics"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/phone"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Token is not valid"
)

// TokenConfig controls issued tokens
type TokenConfig struct {
	Secret          string
	ExpirationHours int
}

// Service handles registration, login and the user directory
type Service struct {
	accounts domain.AccountRepository
	revoker  domain.TokenRevoker
	phones   *phone.Normalizer
	tokens   TokenConfig
	metrics  *metrics.Metrics
	logger   logger.Logger
	now      func() time.Time
}

// NewService creates a new account service. revoker and m may be nil.
func NewService(accounts domain.AccountRepository, revoker domain.TokenRevoker, phones *phone.Normalizer, tokens TokenConfig, m *metrics.Metrics, log logger.Logger) *Service {
	if phones == nil {
		phones = phone.NewNormalizer("")
	}
	if tokens.ExpirationHours <= 0 {
		tokens.ExpirationHours = 168
	}
	return &Service{
		accounts: accounts,
		revoker:  revoker,
		phones:   phones,
		tokens:   tokens,
		metrics:  m,
		logger:   log,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a hashed password and returns a session token
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	phoneNumber, err := s.phones.Normalize(req.Phone)
	if err != nil {
		return nil, domain.NewValidationError("Invalid phone number")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := &models.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Phone:        phoneNumber,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	token, err := auth.GenerateJWT(acc.ID, s.tokens.Secret, s.tokens.ExpirationHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.RecordUserRegistered()
	s.logger.Info("user registered", "user_id", acc.ID)

	return &models.AuthResponse{Token: token, User: acc}, nil
}

// Login checks credentials. Unknown email and wrong password both yield
// an unauthorized error with the same message.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	acc, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			s.metrics.RecordLoginAttempt(false)
			return nil, domain.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, err
	}

	if !auth.CheckPassword(acc.PasswordHash, req.Password) {
		s.metrics.RecordLoginAttempt(false)
		return nil, domain.NewUnauthorizedError(msgInvalidCredentials)
	}

	token, err := auth.GenerateJWT(acc.ID, s.tokens.Secret, s.tokens.ExpirationHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.RecordLoginAttempt(true)
	return &models.AuthResponse{Token: token, User: acc}, nil
}

// Authenticate resolves a bearer token to its account ID
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := auth.ValidateJWTWithBlacklist(ctx, token, s.tokens.Secret, s.revoker)
	if err != nil {
		s.logger.Debug("token rejected", "error", err)
		return "", domain.NewUnauthorizedError(msgInvalidToken)
	}
	return claims.UserID, nil
}

// Logout revokes token for the rest of its lifetime
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := auth.ValidateJWT(token, s.tokens.Secret)
	if err != nil {
		return domain.NewUnauthorizedError(msgInvalidToken)
	}
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Add(ctx, token, auth.RemainingTTL(claims)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// Me returns the authenticated account
func (s *Service) Me(ctx context.Context, userID string) (*models.Account, error) {
	return s.accounts.GetAccount(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]*models.Account, error) {
	return s.accounts.ListAccounts(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Account, error) {
	return s.accounts.GetAccount(ctx, id)
}

// CreateProfile adds a directory entry without credentials
func (s *Service) CreateProfile(ctx context.Context, req models.CreateUserRequest) (*models.Account, error) {
	phoneNumber, err := s.phones.Normalize(req.Phone)
	if err != nil {
		return nil, domain.NewValidationError("Invalid phone number")
	}

	acc := &models.Account{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Email:      normalizeEmail(req.Email),
		Phone:      phoneNumber,
		IsReferred: req.IsReferred || req.ReferredBy != "",
		ReferredBy: req.ReferredBy,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}
