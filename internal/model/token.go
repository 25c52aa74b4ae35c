package model

import "time"

// TokenType enumerates the credential kinds minted by the token
// engine.  Access tokens are stateless and never persisted; the
// other three types are stored in the `tokens` table and are
// single-use: verification looks the row up and the consuming
// operation deletes it.
type TokenType string

const (
	TokenAccess        TokenType = "access"
	TokenRefresh       TokenType = "refresh"
	TokenResetPassword TokenType = "resetPassword"
	TokenVerifyEmail   TokenType = "verifyEmail"
)

// Token models an entry in the `tokens` table.  The Value column is
// unique and holds the signed token string exactly as handed to the
// client, so verification can look it up by value.
type Token struct {
	ID        uint64    // tokens.id
	UserID    uint64    // tokens.user_id
	Value     string    // tokens.token
	Type      TokenType // tokens.type
	Expires   time.Time // tokens.expires
	CreatedAt time.Time // tokens.created_at
}
