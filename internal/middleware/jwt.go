// Package middleware provides reusable HTTP middleware: bearer token
// authentication and the auth-endpoint rate limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/auth"
	"github.com/iliyamo/todo-list-api/internal/model"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the authenticated user's id into the request
// context under "user_id".  A missing header, a forged or expired
// token, or a token of any other type (refresh tokens are not access
// tokens) all yield the same 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			userID, err := auth.ParseToken(secret, raw, model.TokenAccess)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}
