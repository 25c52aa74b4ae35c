package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/storetest"
)

func newTodoStack(t *testing.T) (*storetest.Users, *storetest.Todos, *TodoService, model.User) {
	t.Helper()
	users := storetest.NewUsers()
	todos := storetest.NewTodos()
	svc := &TodoService{Todos: todos, Users: users}
	user, err := users.Create(context.Background(), "owner@example.com", "hash")
	require.NoError(t, err)
	return users, todos, svc, user
}

func mustCreateTodo(t *testing.T, svc *TodoService, userID uint64, title, description string, due time.Time) model.Todo {
	t.Helper()
	todo, err := svc.CreateTodo(context.Background(), userID, title, description, due)
	require.NoError(t, err)
	return todo
}

func TestCreateTodoDefaults(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	due := time.Now().Add(48 * time.Hour)
	todo, err := svc.CreateTodo(ctx, user.ID, "buy milk", "two liters", due)
	require.NoError(t, err)

	assert.NotZero(t, todo.ID)
	assert.Equal(t, user.ID, todo.UserID)
	assert.Equal(t, model.StatusIncomplete, todo.Status)
	assert.False(t, todo.CreatedAt.IsZero())
}

func TestCreateTodoDailyQuota(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	due := time.Now().Add(24 * time.Hour)
	for i := 0; i < 50; i++ {
		_, err := svc.CreateTodo(ctx, user.ID, fmt.Sprintf("task %d", i), "d", due)
		require.NoError(t, err)
	}

	_, err := svc.CreateTodo(ctx, user.ID, "one too many", "d", due)
	requireAppErr(t, err, 400, "You have reached the maximum limit of tasks for today.")

	// The quota is per user; another account is unaffected.
	users := svc.Users.(*storetest.Users)
	other, err := users.Create(ctx, "other@example.com", "hash")
	require.NoError(t, err)
	_, err = svc.CreateTodo(ctx, other.ID, "fine", "d", due)
	require.NoError(t, err)
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	users, _, svc, owner := newTodoStack(t)

	stranger, err := users.Create(ctx, "stranger@example.com", "hash")
	require.NoError(t, err)

	todo := mustCreateTodo(t, svc, owner.ID, "private", "eyes only", time.Now().Add(time.Hour))

	// Cross-user access reads as absence, never as forbidden.
	_, err = svc.GetUserTodoByID(ctx, todo.ID, stranger.ID)
	requireAppErr(t, err, 404, "Todo not found")

	_, err = svc.UpdateTodoByID(ctx, todo.ID, stranger.ID, TodoPatch{})
	requireAppErr(t, err, 404, "Todo not found")

	err = svc.DeleteUserTodo(ctx, todo.ID, stranger.ID)
	requireAppErr(t, err, 404, "Todo not found")

	got, err := svc.GetUserTodoByID(ctx, todo.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.ID, got.ID)
}

func TestGetUserTodosIsStable(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	mustCreateTodo(t, svc, user.ID, "a", "1", time.Now().Add(time.Hour))
	mustCreateTodo(t, svc, user.ID, "b", "2", time.Now().Add(time.Hour))

	first, err := svc.GetUserTodos(ctx, user.ID)
	require.NoError(t, err)
	second, err := svc.GetUserTodos(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestUpdateTodoPartialMerge(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	todo := mustCreateTodo(t, svc, user.ID, "original", "desc", time.Now().Add(time.Hour))

	title := "renamed"
	updated, err := svc.UpdateTodoByID(ctx, todo.ID, user.ID, TodoPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, todo.Description, updated.Description)
	assert.Equal(t, todo.Status, updated.Status)
	assert.Equal(t, todo.DueDate, updated.DueDate)
}

func TestUpdateTodoPublishesCompletion(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	var events []queue.ActivityEvent
	svc.PublishActivity = func(_ context.Context, ev queue.ActivityEvent) error {
		events = append(events, ev)
		return nil
	}

	todo := mustCreateTodo(t, svc, user.ID, "ship it", "d", time.Now().Add(time.Hour))

	complete := model.StatusComplete
	_, err := svc.UpdateTodoByID(ctx, todo.ID, user.ID, TodoPatch{Status: &complete})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, queue.EventTodoCompleted, events[0].Event)
	assert.Equal(t, todo.ID, events[0].TodoID)

	// Re-saving an already complete todo does not publish again.
	_, err = svc.UpdateTodoByID(ctx, todo.ID, user.ID, TodoPatch{Status: &complete})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestStatusCountInvariant(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	due := time.Now().Add(time.Hour)
	inProgress := model.StatusInProgress
	complete := model.StatusComplete

	for i := 0; i < 3; i++ {
		mustCreateTodo(t, svc, user.ID, fmt.Sprintf("i%d", i), "d", due)
	}
	t1 := mustCreateTodo(t, svc, user.ID, "p", "d", due)
	t2 := mustCreateTodo(t, svc, user.ID, "c", "d", due)
	_, err := svc.UpdateTodoByID(ctx, t1.ID, user.ID, TodoPatch{Status: &inProgress})
	require.NoError(t, err)
	_, err = svc.UpdateTodoByID(ctx, t2.ID, user.ID, TodoPatch{Status: &complete})
	require.NoError(t, err)

	counts, err := svc.GetUserTodosByStatusCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.IncompleteCount)
	assert.Equal(t, 1, counts.InProgressCount)
	assert.Equal(t, 1, counts.CompleteCount)
	assert.Equal(t, 5, counts.TotalCount)
	assert.Equal(t, counts.TotalCount, counts.IncompleteCount+counts.InProgressCount+counts.CompleteCount)
}

func TestAverageCompletedOnCreationDay(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	avg, err := svc.GetAverageTodoCompletedByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}

func TestAverageCompletedOverDays(t *testing.T) {
	ctx := context.Background()
	users, _, svc, user := newTodoStack(t)

	// Account created two days ago: daysElapsed = 2 + 1 = 3.
	users.SetCreatedAt(user.ID, time.Now().UTC().Add(-49*time.Hour))

	complete := model.StatusComplete
	due := time.Now().Add(time.Hour)
	for i := 0; i < 6; i++ {
		todo := mustCreateTodo(t, svc, user.ID, fmt.Sprintf("t%d", i), "d", due)
		_, err := svc.UpdateTodoByID(ctx, todo.ID, user.ID, TodoPatch{Status: &complete})
		require.NoError(t, err)
	}

	avg, err := svc.GetAverageTodoCompletedByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, avg, 1e-9)
}

func TestOverdueCount(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	complete := model.StatusComplete

	mustCreateTodo(t, svc, user.ID, "late", "d", past)
	mustCreateTodo(t, svc, user.ID, "on time", "d", future)
	done := mustCreateTodo(t, svc, user.ID, "late but done", "d", past)
	_, err := svc.UpdateTodoByID(ctx, done.ID, user.ID, TodoPatch{Status: &complete})
	require.NoError(t, err)

	overdue, err := svc.GetOverdueTodosByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, overdue)
}

func TestFindSimilarTodo(t *testing.T) {
	ctx := context.Background()
	users, _, svc, user := newTodoStack(t)

	due := time.Now().Add(time.Hour)
	ref := mustCreateTodo(t, svc, user.ID, "groceries", "buy milk and eggs", due)
	titleMatch := mustCreateTodo(t, svc, user.ID, "weekend groceries run", "unrelated", due)
	mustCreateTodo(t, svc, user.ID, "laundry", "wash everything", due)

	// Candidates are system-wide: another user's overlapping todo shows up.
	other, err := users.Create(ctx, "other@example.com", "hash")
	require.NoError(t, err)
	descMatch, err := svc.CreateTodo(ctx, other.ID, "shopping", "must buy milk and eggs today", due)
	require.NoError(t, err)

	similar, err := svc.FindSimilarTodo(ctx, ref.ID, user.ID)
	require.NoError(t, err)

	ids := []uint64{}
	for _, s := range similar {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []uint64{titleMatch.ID, descMatch.ID}, ids)
	assert.NotContains(t, ids, ref.ID)

	// The reference lookup itself stays ownership-scoped.
	_, err = svc.FindSimilarTodo(ctx, ref.ID, other.ID)
	requireAppErr(t, err, 404, "Todo not found")
}

func TestDeleteUserTodo(t *testing.T) {
	ctx := context.Background()
	_, _, svc, user := newTodoStack(t)

	todo := mustCreateTodo(t, svc, user.ID, "temp", "d", time.Now().Add(time.Hour))
	require.NoError(t, svc.DeleteUserTodo(ctx, todo.ID, user.ID))

	_, err := svc.GetUserTodoByID(ctx, todo.ID, user.ID)
	requireAppErr(t, err, 404, "Todo not found")
}
