// Package repository defines sentinel errors shared across the
// individual repositories.  Higher layers match on these values with
// errors.Is to translate storage failures into user-facing errors
// without inspecting driver-specific details.
package repository

import "errors"

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrTodoNotFound is returned when a todo lookup matches no row for
// the requesting owner.  Cross-user access deliberately surfaces the
// same error as true absence.
var ErrTodoNotFound = errors.New("todo not found")

// ErrTokenNotFound is returned when no stored token matches the
// given value and type.
var ErrTokenNotFound = errors.New("token not found")

// ErrEmailExists is returned when an insert or update would violate
// the unique constraint on users.email.
var ErrEmailExists = errors.New("email already exists")
