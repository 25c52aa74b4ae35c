package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/service"
)

// TodoHandler exposes the todo CRUD, reporting and similarity
// endpoints.  Every operation is scoped to the authenticated user.
type TodoHandler struct {
	Todos *service.TodoService
}

func NewTodoHandler(t *service.TodoService) *TodoHandler {
	return &TodoHandler{Todos: t}
}

type createTodoReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
}

type updateTodoReq struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Status      *string    `json:"status"`
}

// todoID parses the :id path parameter.  A malformed id behaves like
// a missing todo.
func todoID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// List returns all todos owned by the caller.
func (h *TodoHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	todos, err := h.Todos.GetUserTodos(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return c.JSON(http.StatusOK, todos)
}

// Create adds a new todo for the caller, subject to the daily quota.
func (h *TodoHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	var req createTodoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" || req.DueDate.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, description and dueDate are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	todo, err := h.Todos.CreateTodo(ctx, uid, req.Title, req.Description, req.DueDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, todo)
}

// Get returns one todo through an ownership-scoped lookup.
func (h *TodoHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	id, ok := todoID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Todo not found"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	todo, err := h.Todos.GetUserTodoByID(ctx, id, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, todo)
}

// Update applies a partial update; only the fields present in the
// body change.
func (h *TodoHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	id, ok := todoID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Todo not found"})
	}
	var req updateTodoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	// Fields absent from the body stay untouched, but a field that is
	// present must not blank out required text.
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must not be empty"})
		}
		req.Title = &trimmed
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		if trimmed == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "description must not be empty"})
		}
		req.Description = &trimmed
	}

	patch := service.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := model.TodoStatus(*req.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		patch.Status = &status
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Todos.UpdateTodoByID(ctx, id, uid, patch); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a todo through an ownership-scoped match.
func (h *TodoHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	id, ok := todoID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Todo not found"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Todos.DeleteUserTodo(ctx, id, uid); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// StatusCount returns the per-status breakdown report.
func (h *TodoHandler) StatusCount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	counts, err := h.Todos.GetUserTodosByStatusCount(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

// AverageCompleted returns completed todos per day since account
// creation.
func (h *TodoHandler) AverageCompleted(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	avg, err := h.Todos.GetAverageTodoCompletedByUser(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"averageCount": avg})
}

// OverdueCount returns the number of incomplete todos past due.
func (h *TodoHandler) OverdueCount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	overdue, err := h.Todos.GetOverdueTodosByUser(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"overdueCount": overdue})
}

// Similar returns todos whose title or description overlaps the
// reference todo's.
func (h *TodoHandler) Similar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate"})
	}
	id, ok := todoID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Todo not found"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	todos, err := h.Todos.FindSimilarTodo(ctx, id, uid)
	if err != nil {
		return respondError(c, err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return c.JSON(http.StatusOK, todos)
}
