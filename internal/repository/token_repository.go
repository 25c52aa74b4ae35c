package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// TokenRepo persists refresh, reset-password and verify-email tokens
// in the `tokens` table.  Access tokens are stateless and never
// touch this repository.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Save inserts a token row and backfills its generated id.
func (r *TokenRepo) Save(ctx context.Context, t *model.Token) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tokens (token, type, expires, user_id) VALUES (?,?,?,?)",
		t.Value, t.Type, t.Expires, t.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByValueAndType looks a token up by its exact stored value and
// type.  Expiry is not checked here; the token engine verifies the
// signed expiry before consulting the store.
func (r *TokenRepo) GetByValueAndType(ctx context.Context, value string, typ model.TokenType) (model.Token, error) {
	var t model.Token
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,type,expires,created_at FROM tokens WHERE token=? AND type=? LIMIT 1",
		value, typ).Scan(&t.ID, &t.UserID, &t.Value, &t.Type, &t.Expires, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Token{}, ErrTokenNotFound
	}
	return t, err
}

// Delete removes a single token row, consuming it.
func (r *TokenRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tokens WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// DeleteByUserAndType removes every token of one type belonging to a
// user.  Used to supersede outstanding reset/verify tokens and to
// clean up after a successful consumption.
func (r *TokenRepo) DeleteByUserAndType(ctx context.Context, userID uint64, typ model.TokenType) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM tokens WHERE user_id=? AND type=?", userID, typ)
	return err
}
