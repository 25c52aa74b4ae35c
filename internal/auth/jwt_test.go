package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-list-api/internal/model"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	value, err := NewToken(testSecret, 42, time.Now().Add(time.Minute), model.TokenAccess)
	require.NoError(t, err)
	require.NotEmpty(t, value)

	uid, err := ParseToken(testSecret, value, model.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	value, err := NewToken(testSecret, 1, time.Now().Add(time.Minute), model.TokenRefresh)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, value, model.TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	value, err := NewToken(testSecret, 1, time.Now().Add(-time.Minute), model.TokenAccess)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, value, model.TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	value, err := NewToken(testSecret, 1, time.Now().Add(time.Minute), model.TokenAccess)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", value, model.TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.jwt", model.TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenValuesAreUnique(t *testing.T) {
	// Two tokens minted in the same second for the same user must not
	// collide, since persisted token values are unique in the store.
	exp := time.Now().Add(time.Hour)
	a, err := NewToken(testSecret, 7, exp, model.TokenRefresh)
	require.NoError(t, err)
	b, err := NewToken(testSecret, 7, exp, model.TokenRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
