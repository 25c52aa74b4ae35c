package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// TodoRepo provides persistence for todos.  Every read or mutation
// of a specific todo is scoped by the owning user's id, so a todo
// belonging to someone else is indistinguishable from a missing one.
type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

const todoCols = "id,user_id,title,description,status,due_date,created_at,updated_at"

// Create inserts a new todo and re-reads the row so the generated
// id, status default and timestamps are populated.
func (r *TodoRepo) Create(ctx context.Context, t *model.Todo) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (user_id, title, description, status, due_date) VALUES (?,?,?,?,?)",
		t.UserID, t.Title, t.Description, t.Status, t.DueDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+todoCols+" FROM todos WHERE id=?", uint64(id))
	return row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
}

// GetByIDAndOwner retrieves a todo only if it belongs to the given
// user.  Returns ErrTodoNotFound otherwise.
func (r *TodoRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (model.Todo, error) {
	var t model.Todo
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+todoCols+" FROM todos WHERE id=? AND user_id=?", id, userID).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrTodoNotFound
	}
	return t, err
}

// ListByOwner returns all todos owned by a user in insertion order.
func (r *TodoRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+todoCols+" FROM todos WHERE user_id=? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update persists title, description, status and due date for a todo
// owned by t.UserID.  Returns ErrTodoNotFound when no row matches.
func (r *TodoRepo) Update(ctx context.Context, t *model.Todo) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE todos SET title=?, description=?, status=?, due_date=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND user_id=?",
		t.Title, t.Description, t.Status, t.DueDate, t.ID, t.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a todo with an ownership-scoped match.
func (r *TodoRepo) DeleteByIDAndOwner(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM todos WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// CountCreatedToday counts the user's todos whose created_at falls on
// the current calendar day.  Feeds the daily creation quota.
func (r *TodoRepo) CountCreatedToday(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM todos WHERE user_id=? AND DATE(created_at)=CURDATE()", userID).Scan(&n)
	return n, err
}

// Count returns the total number of todos owned by a user.
func (r *TodoRepo) Count(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM todos WHERE user_id=?", userID).Scan(&n)
	return n, err
}

// CountByStatus counts the user's todos in one status.
func (r *TodoRepo) CountByStatus(ctx context.Context, userID uint64, status model.TodoStatus) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM todos WHERE user_id=? AND status=?", userID, status).Scan(&n)
	return n, err
}

// CountOverdue counts the user's incomplete todos whose due date is
// strictly before now.
func (r *TodoRepo) CountOverdue(ctx context.Context, userID uint64, now time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM todos WHERE user_id=? AND status=? AND due_date<?",
		userID, model.StatusIncomplete, now).Scan(&n)
	return n, err
}

// FindSimilar returns todos whose title contains the reference title
// or whose description contains the reference description, excluding
// the reference row itself.  The search is system-wide, not scoped to
// the requesting user.
func (r *TodoRepo) FindSimilar(ctx context.Context, excludeID uint64, title, description string) ([]model.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+todoCols+" FROM todos WHERE id<>? AND (title LIKE CONCAT('%',?,'%') OR description LIKE CONCAT('%',?,'%')) ORDER BY id",
		excludeID, title, description)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
