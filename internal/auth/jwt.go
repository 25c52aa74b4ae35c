// Package auth provides the cryptographic core of the token engine:
// minting and verifying typed HS256 JWTs, plus bcrypt password
// hashing.  State (the tokens table) lives in the repository layer;
// everything here is pure.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// ErrInvalidToken is returned for every verification failure: bad
// signature, malformed claims, expiry, or a type mismatch.  Callers
// must not learn which.
var ErrInvalidToken = errors.New("invalid token")

// NewToken builds and signs an HS256 JWT for a user.  The claims are
// sub (user id), iat, exp and type.  A random jti claim makes every
// minted token unique, so two tokens issued within the same second
// never collide on the tokens table's unique value column.
func NewToken(secret string, userID uint64, expires time.Time, typ model.TokenType) (string, error) {
	jti, err := randomHex(8)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"sub":  userID,
		"iat":  time.Now().UTC().Unix(),
		"exp":  expires.Unix(),
		"type": string(typ),
		"jti":  jti,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry of a token string and
// checks that its type claim matches the expected type.  It returns
// the user id from the sub claim.  Any failure is ErrInvalidToken.
func ParseToken(secret, value string, expected model.TokenType) (uint64, error) {
	tok, err := jwt.Parse(value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != string(expected) {
		return 0, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrInvalidToken
	}
	return uint64(sub), nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
