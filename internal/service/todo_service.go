package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/todo-list-api/internal/apperr"
	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// dailyTodoLimit caps how many todos one user may create per
// calendar day.  The 51st creation of the day is rejected.
const dailyTodoLimit = 50

// TodoPatch carries the optional fields of a partial todo update.
type TodoPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *model.TodoStatus
}

// StatusCount is the per-status breakdown report.
type StatusCount struct {
	IncompleteCount int `json:"incompleteCount"`
	InProgressCount int `json:"inProgressCount"`
	CompleteCount   int `json:"completeCount"`
	TotalCount      int `json:"totalCount"`
}

// TodoService orchestrates ownership-scoped todo CRUD, the daily
// creation quota, the derived reports and the similarity lookup.
type TodoService struct {
	Todos TodoStore
	Users UserStore

	// PublishActivity, when set, is invoked after a todo transitions
	// to complete.  Failures are the publisher's problem; the request
	// never fails because of it.
	PublishActivity func(ctx context.Context, ev queue.ActivityEvent) error
}

// CreateTodo creates a todo owned by userID with the default
// incomplete status, subject to the daily quota.
func (s *TodoService) CreateTodo(ctx context.Context, userID uint64, title, description string, dueDate time.Time) (model.Todo, error) {
	count, err := s.Todos.CountCreatedToday(ctx, userID)
	if err != nil {
		return model.Todo{}, err
	}
	if count >= dailyTodoLimit {
		return model.Todo{}, apperr.BadRequest("You have reached the maximum limit of tasks for today.")
	}

	todo := model.Todo{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      model.StatusIncomplete,
		DueDate:     dueDate,
	}
	if err := s.Todos.Create(ctx, &todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// GetUserTodos lists every todo owned by the user.
func (s *TodoService) GetUserTodos(ctx context.Context, userID uint64) ([]model.Todo, error) {
	return s.Todos.ListByOwner(ctx, userID)
}

// GetUserTodoByID resolves a todo through an ownership-scoped
// lookup.  Another user's todo yields the same NotFound as a missing
// one.
func (s *TodoService) GetUserTodoByID(ctx context.Context, id, userID uint64) (model.Todo, error) {
	todo, err := s.Todos.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return model.Todo{}, apperr.NotFound("Todo not found")
		}
		return model.Todo{}, err
	}
	return todo, nil
}

// UpdateTodoByID merges the provided patch fields into the todo and
// persists it.  Completing a todo emits an activity event.
func (s *TodoService) UpdateTodoByID(ctx context.Context, id, userID uint64, patch TodoPatch) (model.Todo, error) {
	todo, err := s.GetUserTodoByID(ctx, id, userID)
	if err != nil {
		return model.Todo{}, err
	}
	prevStatus := todo.Status

	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Description != nil {
		todo.Description = *patch.Description
	}
	if patch.DueDate != nil {
		todo.DueDate = *patch.DueDate
	}
	if patch.Status != nil {
		todo.Status = *patch.Status
	}

	if err := s.Todos.Update(ctx, &todo); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return model.Todo{}, apperr.NotFound("Todo not found")
		}
		return model.Todo{}, err
	}

	if s.PublishActivity != nil && prevStatus != model.StatusComplete && todo.Status == model.StatusComplete {
		_ = s.PublishActivity(ctx, queue.ActivityEvent{
			Event:      queue.EventTodoCompleted,
			UserID:     todo.UserID,
			TodoID:     todo.ID,
			Title:      todo.Title,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return todo, nil
}

// DeleteUserTodo removes a todo through an ownership-scoped match.
func (s *TodoService) DeleteUserTodo(ctx context.Context, id, userID uint64) error {
	err := s.Todos.DeleteByIDAndOwner(ctx, id, userID)
	if errors.Is(err, repository.ErrTodoNotFound) {
		return apperr.NotFound("Todo not found")
	}
	return err
}

// GetUserTodosByStatusCount returns the four counts of the status
// report.  incomplete + in-progress + complete always equals total.
func (s *TodoService) GetUserTodosByStatusCount(ctx context.Context, userID uint64) (StatusCount, error) {
	var (
		out StatusCount
		err error
	)
	if out.IncompleteCount, err = s.Todos.CountByStatus(ctx, userID, model.StatusIncomplete); err != nil {
		return StatusCount{}, err
	}
	if out.InProgressCount, err = s.Todos.CountByStatus(ctx, userID, model.StatusInProgress); err != nil {
		return StatusCount{}, err
	}
	if out.CompleteCount, err = s.Todos.CountByStatus(ctx, userID, model.StatusComplete); err != nil {
		return StatusCount{}, err
	}
	if out.TotalCount, err = s.Todos.Count(ctx, userID); err != nil {
		return StatusCount{}, err
	}
	return out, nil
}

// GetAverageTodoCompletedByUser returns completed todos per day since
// account creation.  daysElapsed is floored and then incremented, so
// it is at least 1 on the creation day and the division never blows
// up.
func (s *TodoService) GetAverageTodoCompletedByUser(ctx context.Context, userID uint64) (float64, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	daysElapsed := int(time.Now().UTC().Sub(user.CreatedAt)/(24*time.Hour)) + 1
	if daysElapsed < 1 {
		daysElapsed = 1
	}
	completed, err := s.Todos.CountByStatus(ctx, userID, model.StatusComplete)
	if err != nil {
		return 0, err
	}
	return float64(completed) / float64(daysElapsed), nil
}

// GetOverdueTodosByUser counts the user's incomplete todos due before
// now.
func (s *TodoService) GetOverdueTodosByUser(ctx context.Context, userID uint64) (int, error) {
	return s.Todos.CountOverdue(ctx, userID, time.Now().UTC())
}

// FindSimilarTodo resolves the reference todo through an
// ownership-scoped lookup, then searches all todos whose title or
// description contains the reference's title or description.  The
// candidate set is system-wide, not limited to the caller's todos.
func (s *TodoService) FindSimilarTodo(ctx context.Context, id, userID uint64) ([]model.Todo, error) {
	ref, err := s.GetUserTodoByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.Todos.FindSimilar(ctx, ref.ID, ref.Title, ref.Description)
}
