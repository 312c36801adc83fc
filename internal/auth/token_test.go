package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	base := time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)

	newTokens := func(secret string) *Tokens {
		tk := NewTokens(secret, time.Hour)
		tk.now = func() time.Time { return base }
		return tk
	}

	t.Run("RoundTrip", func(t *testing.T) {
		tk := newTokens("secret")

		token, err := tk.Issue(42)
		require.NoError(t, err)

		userID, err := tk.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, 42, userID)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := newTokens("secret").Issue(42)
		require.NoError(t, err)

		_, err = newTokens("other").Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		tk := newTokens("secret")
		token, err := tk.Issue(42)
		require.NoError(t, err)

		tk.now = func() time.Time { return base.Add(2 * time.Hour) }
		_, err = tk.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := newTokens("secret").Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
