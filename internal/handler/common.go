// Package handler defines the HTTP handlers.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/apperr"
)

// getUserID extracts the authenticated user's id placed in the
// context by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// respondError writes a service error as JSON.  apperr values map
// straight to their status code and fixed message; anything else is
// an unexpected internal failure and gets a generic 500.
func respondError(c echo.Context, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return c.JSON(ae.Code, echo.Map{"error": ae.Message})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
}
