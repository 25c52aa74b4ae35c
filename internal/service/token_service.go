package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/todo-list-api/internal/apperr"
	"github.com/iliyamo/todo-list-api/internal/auth"
	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// TokenDetail is one signed token with its expiry, as returned to
// clients.
type TokenDetail struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// TokenPair is the access/refresh pair issued on every successful
// authentication.
type TokenPair struct {
	Access  TokenDetail `json:"access"`
	Refresh TokenDetail `json:"refresh"`
}

// TokenService mints, persists, verifies and revokes typed tokens.
// Access tokens are stateless; refresh, reset-password and
// verify-email tokens are written to the token store and consumed on
// use.
type TokenService struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
	VerifyTTL  time.Duration
	Tokens     TokenStore
	Users      UserStore
}

// GenerateAuthTokens issues a short-lived stateless access token and
// a persisted refresh token for the user.
func (s *TokenService) GenerateAuthTokens(ctx context.Context, user model.User) (TokenPair, error) {
	accessExp := time.Now().UTC().Add(s.AccessTTL)
	access, err := auth.NewToken(s.Secret, user.ID, accessExp, model.TokenAccess)
	if err != nil {
		return TokenPair{}, err
	}

	refreshExp := time.Now().UTC().Add(s.RefreshTTL)
	refresh, err := auth.NewToken(s.Secret, user.ID, refreshExp, model.TokenRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Tokens.Save(ctx, &model.Token{
		UserID:  user.ID,
		Value:   refresh,
		Type:    model.TokenRefresh,
		Expires: refreshExp,
	}); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		Access:  TokenDetail{Token: access, Expires: accessExp},
		Refresh: TokenDetail{Token: refresh, Expires: refreshExp},
	}, nil
}

// GenerateResetPasswordToken mints and persists a reset-password
// token for the account with the given email.  Any prior unconsumed
// reset token for that user is deleted first, so at most one reset
// token is active per user.
func (s *TokenService) GenerateResetPasswordToken(ctx context.Context, email string) (string, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperr.NotFound("No users found with this email")
		}
		return "", err
	}
	return s.mintStored(ctx, user.ID, model.TokenResetPassword, s.ResetTTL)
}

// GenerateVerifyEmailToken mints and persists a verify-email token,
// superseding any outstanding one for the user.
func (s *TokenService) GenerateVerifyEmailToken(ctx context.Context, user model.User) (string, error) {
	return s.mintStored(ctx, user.ID, model.TokenVerifyEmail, s.VerifyTTL)
}

// VerifyToken checks a token's signature, expiry and type claim.
// For the persisted types it additionally requires a stored row
// matching value+type whose owner matches the signed subject, which
// enforces single-use: once the consuming operation deletes the row
// the same token can never verify again.  Every failure mode is
// collapsed into the same Unauthorized error.
func (s *TokenService) VerifyToken(ctx context.Context, value string, typ model.TokenType) (model.Token, error) {
	unauthorized := apperr.Unauthorized("Please authenticate")

	userID, err := auth.ParseToken(s.Secret, value, typ)
	if err != nil {
		return model.Token{}, unauthorized
	}
	if typ == model.TokenAccess {
		return model.Token{UserID: userID, Value: value, Type: typ}, nil
	}

	t, err := s.Tokens.GetByValueAndType(ctx, value, typ)
	if err != nil || t.UserID != userID {
		return model.Token{}, unauthorized
	}
	return t, nil
}

func (s *TokenService) mintStored(ctx context.Context, userID uint64, typ model.TokenType, ttl time.Duration) (string, error) {
	if err := s.Tokens.DeleteByUserAndType(ctx, userID, typ); err != nil {
		return "", err
	}
	exp := time.Now().UTC().Add(ttl)
	value, err := auth.NewToken(s.Secret, userID, exp, typ)
	if err != nil {
		return "", err
	}
	if err := s.Tokens.Save(ctx, &model.Token{
		UserID:  userID,
		Value:   value,
		Type:    typ,
		Expires: exp,
	}); err != nil {
		return "", err
	}
	return value, nil
}
