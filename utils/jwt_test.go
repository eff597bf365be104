package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	SetTokenSecret("test-secret")

	token, err := GenerateSessionToken("session-1", time.Minute)
	require.NoError(t, err)

	id, err := ExtractSessionID(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestSessionTokenRejected(t *testing.T) {
	SetTokenSecret("test-secret")

	expired, err := GenerateSessionToken("session-1", -time.Minute)
	require.NoError(t, err)
	_, err = ExtractSessionID(expired)
	assert.Error(t, err)

	_, err = ExtractSessionID("not-a-token")
	assert.Error(t, err)

	token, err := GenerateSessionToken("session-1", time.Minute)
	require.NoError(t, err)
	SetTokenSecret("another-secret")
	_, err = ExtractSessionID(token)
	assert.Error(t, err)
}
