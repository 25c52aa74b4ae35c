// Package storetest provides in-memory implementations of the service
// layer's store interfaces.  They mirror the MySQL repositories'
// observable behavior, sentinel errors included, so services and
// handlers can be exercised in tests without a database.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// Users is an in-memory user store.
type Users struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]model.User
}

func NewUsers() *Users { return &Users{users: map[uint64]model.User{}} }

func (s *Users) Create(_ context.Context, email, passwordHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	s.seq++
	now := time.Now().UTC()
	u := model.User{ID: s.seq, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	s.users[u.ID] = u
	return u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *Users) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *Users) Update(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return nil
}

func (s *Users) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// SetCreatedAt rewrites a user's creation time; used by the report
// tests to simulate an older account.
func (s *Users) SetCreatedAt(id uint64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	u.CreatedAt = at
	s.users[id] = u
}

// Tokens is an in-memory token store.
type Tokens struct {
	mu     sync.Mutex
	seq    uint64
	tokens map[uint64]model.Token
}

func NewTokens() *Tokens { return &Tokens{tokens: map[uint64]model.Token{}} }

func (s *Tokens) Save(_ context.Context, t *model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t.ID = s.seq
	t.CreatedAt = time.Now().UTC()
	s.tokens[t.ID] = *t
	return nil
}

func (s *Tokens) GetByValueAndType(_ context.Context, value string, typ model.TokenType) (model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Value == value && t.Type == typ {
			return t, nil
		}
	}
	return model.Token{}, repository.ErrTokenNotFound
}

func (s *Tokens) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[id]; !ok {
		return repository.ErrTokenNotFound
	}
	delete(s.tokens, id)
	return nil
}

func (s *Tokens) DeleteByUserAndType(_ context.Context, userID uint64, typ model.TokenType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tokens {
		if t.UserID == userID && t.Type == typ {
			delete(s.tokens, id)
		}
	}
	return nil
}

// CountByUserAndType reports how many stored tokens of one type a
// user currently holds.
func (s *Tokens) CountByUserAndType(userID uint64, typ model.TokenType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tokens {
		if t.UserID == userID && t.Type == typ {
			n++
		}
	}
	return n
}

// Todos is an in-memory todo store.
type Todos struct {
	mu    sync.Mutex
	seq   uint64
	todos map[uint64]model.Todo
}

func NewTodos() *Todos { return &Todos{todos: map[uint64]model.Todo{}} }

func (s *Todos) Create(_ context.Context, t *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t.ID = s.seq
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.todos[t.ID] = *t
	return nil
}

func (s *Todos) GetByIDAndOwner(_ context.Context, id, userID uint64) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return model.Todo{}, repository.ErrTodoNotFound
	}
	return t, nil
}

func (s *Todos) ListByOwner(_ context.Context, userID uint64) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Todo{}
	for _, t := range s.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Todos) Update(_ context.Context, t *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.todos[t.ID]
	if !ok || cur.UserID != t.UserID {
		return repository.ErrTodoNotFound
	}
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	s.todos[t.ID] = *t
	return nil
}

func (s *Todos) DeleteByIDAndOwner(_ context.Context, id, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return repository.ErrTodoNotFound
	}
	delete(s.todos, id)
	return nil
}

func (s *Todos) CountCreatedToday(_ context.Context, userID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	y2, m2, d2 := time.Now().UTC().Date()
	for _, t := range s.todos {
		if t.UserID != userID {
			continue
		}
		y1, m1, d1 := t.CreatedAt.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			n++
		}
	}
	return n, nil
}

func (s *Todos) Count(_ context.Context, userID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.todos {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Todos) CountByStatus(_ context.Context, userID uint64, status model.TodoStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.todos {
		if t.UserID == userID && t.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *Todos) CountOverdue(_ context.Context, userID uint64, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.todos {
		if t.UserID == userID && t.Status == model.StatusIncomplete && t.DueDate.Before(now) {
			n++
		}
	}
	return n, nil
}

func (s *Todos) FindSimilar(_ context.Context, excludeID uint64, title, description string) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Todo{}
	for _, t := range s.todos {
		if t.ID == excludeID {
			continue
		}
		if strings.Contains(t.Title, title) || strings.Contains(t.Description, description) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
