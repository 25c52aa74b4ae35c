package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/service"
)

// AuthHandler bundles the services behind the auth endpoints.
type AuthHandler struct {
	Users  *service.UserService
	Auth   *service.AuthService
	Tokens *service.TokenService
}

func NewAuthHandler(u *service.UserService, a *service.AuthService, t *service.TokenService) *AuthHandler {
	return &AuthHandler{Users: u, Auth: a, Tokens: t}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type forgotPasswordReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	Password string `json:"password"`
}

type userPart struct {
	ID         uint64    `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Email: u.Email, IsVerified: u.IsVerified, CreatedAt: u.CreatedAt}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Register creates the account and returns the email verification
// token directly; there is no mail dispatch, the caller is expected
// to use the token against /verify-email.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	token, err := h.Tokens.GenerateVerifyEmailToken(ctx, user)
	if err != nil {
		return respondError(c, err)
	}

	_ = service.PublishActivity(ctx, queue.ActivityEvent{
		Event:      queue.EventUserRegistered,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"emailVerificationToken": token})
}

// Login verifies credentials and returns the user with a fresh token
// pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	tokens, err := h.Tokens.GenerateAuthTokens(ctx, user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":   toUserPart(user),
		"tokens": tokens,
	})
}

// Logout revokes the refresh token supplied in the body.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RefreshTokens exchanges a refresh token for a new pair.
func (h *AuthHandler) RefreshTokens(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tokens, err := h.Auth.RefreshAuth(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// ForgotPassword mints a reset-password token for the given email.
// The token is returned in the response in lieu of email dispatch.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	token, err := h.Tokens.GenerateResetPasswordToken(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token})
}

// ResetPassword consumes the reset token from the query string and
// stores the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, token, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SendVerificationEmail mints a fresh verify-email token for the
// authenticated user and returns it directly.
func (h *AuthHandler) SendVerificationEmail(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetUserByID(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	token, err := h.Tokens.GenerateVerifyEmailToken(ctx, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token})
}

// VerifyEmail consumes the verify token from the query string.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.VerifyEmail(ctx, token); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
