package service

import (
	"context"
	"errors"

	"github.com/iliyamo/todo-list-api/internal/apperr"
	"github.com/iliyamo/todo-list-api/internal/auth"
	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// UserPatch carries the optional fields of a user update.  Nil
// pointers leave the corresponding column untouched.
type UserPatch struct {
	Email      *string
	Password   *string
	IsVerified *bool
}

// UserService manages user records.  Password hashing happens here,
// so the stores only ever see bcrypt digests.
type UserService struct {
	Users      UserStore
	BcryptCost int
}

// CreateUser registers a new account.  The email check before the
// insert is a fast-path user-facing error; the unique index on
// users.email remains the actual invariant enforcer, and a racing
// insert surfaces the same BadRequest.
func (s *UserService) CreateUser(ctx context.Context, email, password string) (model.User, error) {
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return model.User{}, apperr.BadRequest("User already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(password, s.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	user, err := s.Users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, apperr.BadRequest("User already exists")
		}
		return model.User{}, err
	}
	return user, nil
}

// GetUserByID fetches a user, mapping absence to NotFound.
func (s *UserService) GetUserByID(ctx context.Context, id uint64) (model.User, error) {
	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, apperr.NotFound("User not found")
		}
		return model.User{}, err
	}
	return user, nil
}

// UpdateUserByID merges the provided fields into an existing user
// and persists the result.  Changing the email to one already taken
// by a different account is a BadRequest.
func (s *UserService) UpdateUserByID(ctx context.Context, id uint64, patch UserPatch) (model.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if _, err := s.Users.GetByEmail(ctx, *patch.Email); err == nil {
			return model.User{}, apperr.BadRequest("Email already taken")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, err
		}
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password, s.BcryptCost)
		if err != nil {
			return model.User{}, err
		}
		user.PasswordHash = hash
	}
	if patch.IsVerified != nil {
		user.IsVerified = *patch.IsVerified
	}

	if err := s.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, apperr.BadRequest("Email already taken")
		}
		return model.User{}, err
	}
	return user, nil
}

// DeleteUserByID removes a user.  Owned todos and tokens cascade at
// the store.
func (s *UserService) DeleteUserByID(ctx context.Context, id uint64) (model.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return model.User{}, err
	}
	return user, nil
}
