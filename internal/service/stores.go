// Package service contains the orchestration layer: token issuance
// and verification, authentication flows, and todo operations with
// their quota and reporting rules.  Services speak to storage through
// the narrow store interfaces below, implemented by the MySQL
// repositories in production and by in-memory fakes in tests.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// UserStore is the persistence surface needed for user records.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id uint64) error
}

// TokenStore persists the stateful token types (refresh, reset,
// verify).  Access tokens never reach it.
type TokenStore interface {
	Save(ctx context.Context, t *model.Token) error
	GetByValueAndType(ctx context.Context, value string, typ model.TokenType) (model.Token, error)
	Delete(ctx context.Context, id uint64) error
	DeleteByUserAndType(ctx context.Context, userID uint64, typ model.TokenType) error
}

// TodoStore is the persistence surface for todos, including the
// aggregate queries behind the reports.
type TodoStore interface {
	Create(ctx context.Context, t *model.Todo) error
	GetByIDAndOwner(ctx context.Context, id, userID uint64) (model.Todo, error)
	ListByOwner(ctx context.Context, userID uint64) ([]model.Todo, error)
	Update(ctx context.Context, t *model.Todo) error
	DeleteByIDAndOwner(ctx context.Context, id, userID uint64) error
	CountCreatedToday(ctx context.Context, userID uint64) (int, error)
	Count(ctx context.Context, userID uint64) (int, error)
	CountByStatus(ctx context.Context, userID uint64, status model.TodoStatus) (int, error)
	CountOverdue(ctx context.Context, userID uint64, now time.Time) (int, error)
	FindSimilar(ctx context.Context, excludeID uint64, title, description string) ([]model.Todo, error)
}
