package service

import (
	"context"
	"errors"

	"github.com/iliyamo/todo-list-api/internal/apperr"
	"github.com/iliyamo/todo-list-api/internal/auth"
	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// AuthService orchestrates login, logout, token refresh, password
// reset and email verification.  It is the sanitization boundary for
// these flows: distinct internal failures are collapsed into one
// fixed message per operation so callers cannot probe which step
// failed.
type AuthService struct {
	Users      UserStore
	Tokens     TokenStore
	TokenSvc   *TokenService
	BcryptCost int
}

// Login verifies email and password and returns the user.  Unknown
// email and wrong password surface the identical error.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil || !auth.VerifyPassword(user.PasswordHash, password) {
		return model.User{}, apperr.Unauthorized("Incorrect email or password")
	}
	return user, nil
}

// Logout revokes a refresh token by deleting its stored row.
// An unknown token value is a NotFound, per the external contract.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	t, err := s.Tokens.GetByValueAndType(ctx, refreshToken, model.TokenRefresh)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return apperr.NotFound("Not found")
		}
		return err
	}
	return s.Tokens.Delete(ctx, t.ID)
}

// RefreshAuth exchanges a valid refresh token for a new token pair,
// consuming the old token.  Verification failure, a vanished user and
// storage errors all collapse to the same Unauthorized.
func (s *AuthService) RefreshAuth(ctx context.Context, refreshToken string) (TokenPair, error) {
	unauthorized := apperr.Unauthorized("Please authenticate")

	t, err := s.TokenSvc.VerifyToken(ctx, refreshToken, model.TokenRefresh)
	if err != nil {
		return TokenPair{}, unauthorized
	}
	user, err := s.Users.GetByID(ctx, t.UserID)
	if err != nil {
		return TokenPair{}, unauthorized
	}
	if err := s.Tokens.Delete(ctx, t.ID); err != nil {
		return TokenPair{}, unauthorized
	}
	pair, err := s.TokenSvc.GenerateAuthTokens(ctx, user)
	if err != nil {
		return TokenPair{}, unauthorized
	}
	return pair, nil
}

// ResetPassword consumes a reset-password token and stores the new
// password hash.  All reset tokens for the user are cleared, not
// just the consumed one.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	failed := apperr.Unauthorized("Password reset failed")

	t, err := s.TokenSvc.VerifyToken(ctx, resetToken, model.TokenResetPassword)
	if err != nil {
		return failed
	}
	user, err := s.Users.GetByID(ctx, t.UserID)
	if err != nil {
		return failed
	}
	hash, err := auth.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return failed
	}
	user.PasswordHash = hash
	if err := s.Users.Update(ctx, user); err != nil {
		return failed
	}
	if err := s.Tokens.DeleteByUserAndType(ctx, user.ID, model.TokenResetPassword); err != nil {
		return failed
	}
	return nil
}

// VerifyEmail consumes a verify-email token and marks the user as
// verified.  All verify tokens for the user are cleared.
func (s *AuthService) VerifyEmail(ctx context.Context, verifyToken string) error {
	failed := apperr.Unauthorized("Email verification failed")

	t, err := s.TokenSvc.VerifyToken(ctx, verifyToken, model.TokenVerifyEmail)
	if err != nil {
		return failed
	}
	user, err := s.Users.GetByID(ctx, t.UserID)
	if err != nil {
		return failed
	}
	if err := s.Tokens.DeleteByUserAndType(ctx, user.ID, model.TokenVerifyEmail); err != nil {
		return failed
	}
	user.IsVerified = true
	if err := s.Users.Update(ctx, user); err != nil {
		return failed
	}
	return nil
}
