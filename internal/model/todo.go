package model

import "time"

// TodoStatus enumerates the lifecycle states of a todo item.
type TodoStatus string

const (
	StatusIncomplete TodoStatus = "incomplete"
	StatusInProgress TodoStatus = "in-progress"
	StatusComplete   TodoStatus = "complete"
)

// Valid reports whether s is one of the known status values.
func (s TodoStatus) Valid() bool {
	switch s {
	case StatusIncomplete, StatusInProgress, StatusComplete:
		return true
	}
	return false
}

// Todo represents a row in the `todos` table.  Every todo belongs to
// exactly one user and is only ever read or mutated through queries
// scoped by that user's id.
type Todo struct {
	ID          uint64     `json:"id"`          // todos.id
	UserID      uint64     `json:"userId"`      // todos.user_id
	Title       string     `json:"title"`       // todos.title
	Description string     `json:"description"` // todos.description
	Status      TodoStatus `json:"status"`      // todos.status
	DueDate     time.Time  `json:"dueDate"`     // todos.due_date
	CreatedAt   time.Time  `json:"createdAt"`   // todos.created_at
	UpdatedAt   time.Time  `json:"updatedAt"`   // todos.updated_at
}
