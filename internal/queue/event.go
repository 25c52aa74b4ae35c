// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// ActivityQueue is the durable queue carrying account and todo
// activity events.
const ActivityQueue = "todo.activity"

// Event names published to the activity queue.
const (
	EventUserRegistered = "user.registered"
	EventTodoCompleted  = "todo.completed"
)

// ActivityEvent is published when a user registers or a todo is
// completed.  It carries enough information for downstream consumers
// to log or trigger analytics without querying the primary database.
type ActivityEvent struct {
	Event      string `json:"event"`
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email,omitempty"`
	TodoID     uint64 `json:"todo_id,omitempty"`
	Title      string `json:"title,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
