package utils

import (
	"errors"
	"healnexus-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJWT(t *testing.T) {
	const secret = "test-secret"

	t.Run("Valid token returns session id", func(t *testing.T) {
		token, err := GenerateSessionJWT("session-1", secret, time.Hour)
		require.NoError(t, err)

		sessionID, err := ParseJWT(token, secret)
		require.NoError(t, err)
		assert.Equal(t, "session-1", sessionID)
	})

	t.Run("Wrong secret is rejected", func(t *testing.T) {
		token, err := GenerateSessionJWT("session-1", secret, time.Hour)
		require.NoError(t, err)

		_, err = ParseJWT(token, "other-secret")
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, 401, customErr.StatusCode)
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		token, err := GenerateSessionJWT("session-1", secret, -time.Minute)
		require.NoError(t, err)

		_, err = ParseJWT(token, secret)
		assert.Error(t, err)
	})
}

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()
	assert.NotEqual(t, first, second)
	assert.Contains(t, first, "HLNXS_SVC_")
	assert.NotContains(t, first, "-")
}
