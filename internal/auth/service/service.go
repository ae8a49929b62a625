// Package service implements account management: sign up with email
// verification, credential sign in with refresh-token rotation, and password
// recovery. Invalid credential paths return the same message regardless of
// whether the account exists.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"homehunt_backend/internal/auth/password"
	"homehunt_backend/internal/auth/repository"
	"homehunt_backend/internal/auth/token"
	"homehunt_backend/internal/email"
	"homehunt_backend/platform/apperr"
	"homehunt_backend/platform/config"
	"homehunt_backend/platform/logger"
	"homehunt_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
)

const (
	msgInvalidCredentials = "invalid email or password"
	msgTokenInvalid       = "invalid or expired token"
	msgAccountInactive    = "account is suspended"
	msgEmailNotVerified   = "email is not verified"

	verifyTokenSize  = 32
	refreshTokenSize = 48
)

// Store is the persistence surface the auth service needs.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash, firstName, lastName string, mobileNumber *string) (repository.User, error)
	GetUserByEmail(ctx context.Context, email string) (repository.User, error)
	GetUserByID(ctx context.Context, userID int64) (repository.User, error)
	MarkEmailVerified(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName string, mobileNumber *string) (repository.User, error)

	CreateUserToken(ctx context.Context, userID int64, tokenHash, tokenType string, expiresAt time.Time) error
	GetUserToken(ctx context.Context, tokenHash, tokenType string) (int64, time.Time, error)
	UseUserToken(ctx context.Context, tokenHash, tokenType string) error

	CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (int64, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error
}

type Service struct {
	store  Store
	cfg    config.AuthServiceConfig
	sender email.Sender
	log    *logger.Logger
}

func New(store Store, cfg config.AuthServiceConfig, sender email.Sender, log *logger.Logger) *Service {
	return &Service{store: store, cfg: cfg, sender: sender, log: log}
}

// SignUp registers a new account and emails a verification link.
func (s *Service) SignUp(ctx context.Context, emailAddr, plainPassword, firstName, lastName, mobileNumber string) error {
	var normalizedMobile *string
	if mobileNumber != "" {
		normalized := phone.NormalizeE164(mobileNumber)
		normalizedMobile = &normalized
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, emailAddr, hash, firstName, lastName, normalizedMobile)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return apperr.Conflict("an account with this email already exists")
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	s.log.AuthEvent("sign_up", user.Email, true, "")
	s.sendVerificationEmail(ctx, user)
	return nil
}

// ResendVerification issues a fresh verification link for unverified accounts.
// Always succeeds from the caller's perspective to avoid account enumeration.
func (s *Service) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	s.sendVerificationEmail(ctx, user)
	return nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *Service) VerifyEmail(ctx context.Context, rawToken string) error {
	tokenHash := token.HashSHA256(rawToken)
	userID, expiresAt, err := s.store.GetUserToken(ctx, tokenHash, repository.TokenTypeEmailVerify)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Validation(msgTokenInvalid)
	}
	if err != nil {
		return fmt.Errorf("lookup verify token: %w", err)
	}
	if time.Now().After(expiresAt) {
		return apperr.Validation(msgTokenInvalid)
	}

	if err := s.store.MarkEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if err := s.store.UseUserToken(ctx, tokenHash, repository.TokenTypeEmailVerify); err != nil {
		return fmt.Errorf("consume verify token: %w", err)
	}

	s.log.Info("email verified", "user_id", userID)
	return nil
}

// SignIn checks credentials and issues an access/refresh token pair.
// Suspended accounts cannot sign in.
func (s *Service) SignIn(ctx context.Context, emailAddr, plainPassword string) (accessToken, refreshToken string, err error) {
	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return "", "", apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return "", "", fmt.Errorf("lookup user: %w", err)
	}

	if !password.Verify(user.PasswordHash, plainPassword) {
		s.log.AuthEvent("sign_in", emailAddr, false, "bad credentials")
		return "", "", apperr.Unauthorized(msgInvalidCredentials)
	}
	if !user.IsActive {
		s.log.AuthEvent("sign_in", emailAddr, false, "account suspended")
		return "", "", apperr.Forbidden(msgAccountInactive)
	}
	if !user.EmailVerified {
		s.log.AuthEvent("sign_in", emailAddr, false, "email not verified")
		return "", "", apperr.Forbidden(msgEmailNotVerified)
	}

	accessToken, refreshToken, err = s.issueTokens(ctx, user.ID)
	if err != nil {
		return "", "", err
	}

	s.log.AuthEvent("sign_in", user.Email, true, "")
	return accessToken, refreshToken, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. The account must still be active.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (accessToken, newRefreshToken string, err error) {
	tokenHash := token.HashSHA256(rawRefreshToken)
	userID, expiresAt, err := s.store.GetRefreshToken(ctx, tokenHash)
	if errors.Is(err, repository.ErrNotFound) {
		return "", "", apperr.Unauthorized(msgTokenInvalid)
	}
	if err != nil {
		return "", "", fmt.Errorf("lookup refresh token: %w", err)
	}
	if time.Now().After(expiresAt) {
		return "", "", apperr.Unauthorized(msgTokenInvalid)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", "", apperr.Unauthorized(msgTokenInvalid)
	}
	if err != nil {
		return "", "", fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return "", "", apperr.Forbidden(msgAccountInactive)
	}

	if err := s.store.RevokeRefreshToken(ctx, tokenHash); err != nil {
		return "", "", fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, userID)
}

// SignOut revokes the presented refresh token.
func (s *Service) SignOut(ctx context.Context, rawRefreshToken string) error {
	return s.store.RevokeRefreshToken(ctx, token.HashSHA256(rawRefreshToken))
}

// ForgotPassword emails a reset link when the account exists. The response is
// identical either way.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	rawToken, err := token.GenerateRandomToken(verifyTokenSize)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.GetResetTokenTTL())
	if err := s.store.CreateUserToken(ctx, user.ID, token.HashSHA256(rawToken), repository.TokenTypePasswordReset, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.GetAppBaseURL(), rawToken)
	if err := s.sender.SendPasswordResetEmail(ctx, user.Email, resetURL); err != nil {
		s.log.EmailError("password_reset", user.Email, err)
	}
	return nil
}

// ResetPassword consumes a reset token, sets the new password and revokes all
// refresh sessions.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	tokenHash := token.HashSHA256(rawToken)
	userID, expiresAt, err := s.store.GetUserToken(ctx, tokenHash, repository.TokenTypePasswordReset)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Validation(msgTokenInvalid)
	}
	if err != nil {
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if time.Now().After(expiresAt) {
		return apperr.Validation(msgTokenInvalid)
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.store.UseUserToken(ctx, tokenHash, repository.TokenTypePasswordReset); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if err := s.store.RevokeAllRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.log.Info("password reset", "user_id", userID)
	return nil
}

// ChangePassword updates the password for a signed-in user after verifying
// the current one, then revokes all other sessions.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("account not found")
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	if !password.Verify(user.PasswordHash, currentPassword) {
		return apperr.Validation("current password is incorrect")
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.store.RevokeAllRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.log.AuthEvent("password_changed", user.Email, true, "")
	return nil
}

// GetProfile returns the user's own account details.
func (s *Service) GetProfile(ctx context.Context, userID int64) (repository.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.User{}, apperr.NotFound("account not found")
	}
	return user, err
}

// UpdateProfile updates name and mobile number.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, mobileNumber string) (repository.User, error) {
	var normalizedMobile *string
	if mobileNumber != "" {
		normalized := phone.NormalizeE164(mobileNumber)
		normalizedMobile = &normalized
	}

	user, err := s.store.UpdateProfile(ctx, userID, firstName, lastName, normalizedMobile)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.User{}, apperr.NotFound("account not found")
	}
	return user, err
}

func (s *Service) sendVerificationEmail(ctx context.Context, user repository.User) {
	rawToken, err := token.GenerateRandomToken(verifyTokenSize)
	if err != nil {
		s.log.EmailError("verification", user.Email, err)
		return
	}

	expiresAt := time.Now().Add(s.cfg.GetVerifyTokenTTL())
	if err := s.store.CreateUserToken(ctx, user.ID, token.HashSHA256(rawToken), repository.TokenTypeEmailVerify, expiresAt); err != nil {
		s.log.EmailError("verification", user.Email, err)
		return
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.GetAppBaseURL(), rawToken)
	if err := s.sender.SendVerificationEmail(ctx, user.Email, verifyURL); err != nil {
		s.log.EmailError("verification", user.Email, err)
	}
}

func (s *Service) issueTokens(ctx context.Context, userID int64) (accessToken, refreshToken string, err error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"typ": "access",
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err = token.GenerateRandomToken(refreshTokenSize)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	expiresAt := now.Add(s.cfg.GetRefreshTokenTTL())
	if err := s.store.CreateRefreshToken(ctx, userID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
