package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	mgr := NewManager(TokenConfig{Secret: []byte("test-secret")})
	userID := uuid.New()

	token, err := mgr.GenerateAccessToken(userID, "a@example.com", "alice")
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	mgr := NewManager(TokenConfig{Secret: []byte("secret-one")})
	other := NewManager(TokenConfig{Secret: []byte("secret-two")})

	token, err := mgr.GenerateAccessToken(uuid.New(), "", "bob")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	mgr := NewManager(TokenConfig{
		Secret:    []byte("test-secret"),
		AccessTTL: -time.Minute,
	})

	token, err := mgr.GenerateAccessToken(uuid.New(), "", "bob")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	mgr := NewManager(TokenConfig{Secret: []byte("test-secret")})
	_, err := mgr.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
