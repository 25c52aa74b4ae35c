// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/apperr"
	"github.com/iliyamo/todo-list-api/internal/handler"
	"github.com/iliyamo/todo-list-api/internal/middleware"
)

// RegisterRoutes registers the routes that require no authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under
// /v1/auth.  The rate limiter wraps the whole group; only
// send-verification-email requires an access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rl echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", rl)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.POST("/refresh-tokens", a.RefreshTokens)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)
	g.POST("/verify-email", a.VerifyEmail)
	g.POST("/send-verification-email", a.SendVerificationEmail, middleware.JWTAuth(jwtSecret))
}

// RegisterTodos registers the todo endpoints under /v1/todos.  All
// of them sit behind the JWT middleware.  The report routes are
// static and therefore take precedence over /:id.
func RegisterTodos(e *echo.Echo, t *handler.TodoHandler, jwtSecret string) {
	g := e.Group("/v1/todos", middleware.JWTAuth(jwtSecret))
	g.GET("", t.List)
	g.POST("", t.Create)
	g.GET("/report/status-count", t.StatusCount)
	g.GET("/report/avg-completed", t.AverageCompleted)
	g.GET("/report/overdue-count", t.OverdueCount)
	g.GET("/:id", t.Get)
	g.PUT("/:id", t.Update)
	g.DELETE("/:id", t.Delete)
	g.GET("/:id/similar-todos", t.Similar)
}

// NewHTTPErrorHandler builds the echo error handler: unknown routes
// become a uniform 404, apperr values keep their code and message,
// and anything else is a 500 whose detail is only exposed in dev.
func NewHTTPErrorHandler(env string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "Internal server error"

		var he *echo.HTTPError
		var ae *apperr.Error
		switch {
		case errors.As(err, &ae):
			code, msg = ae.Code, ae.Message
		case errors.As(err, &he):
			code = he.Code
			if code == http.StatusNotFound {
				msg = "Not found"
			} else if s, ok := he.Message.(string); ok {
				msg = s
			}
		}

		if code == http.StatusInternalServerError {
			c.Logger().Error(err)
			if env == "dev" {
				msg = err.Error()
			}
		}
		_ = c.JSON(code, echo.Map{"error": msg})
	}
}
