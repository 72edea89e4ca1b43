package service

import (
	"context"
	"testing"
	"time"

	"realtyflow/internal/config"
	"realtyflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{Username: "agent", Password: "pw", Secret: "test-secret", TokenTTL: time.Hour}
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), nil)

	_, err := svc.Login("agent", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	resp, err := svc.Login("agent", "pw")
	require.NoError(t, err)
	assert.Equal(t, AgentID("agent"), resp.AgentID)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.AgentID, claims.AgentID)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, resp.ExpiresAt, claims.ExpiresAt.Unix())
}

func TestAgentIDIsStable(t *testing.T) {
	assert.Equal(t, AgentID("agent"), AgentID("agent"))
	assert.NotEqual(t, AgentID("agent"), AgentID("other"))
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), nil)
	resp, err := svc.Login("agent", "pw")
	require.NoError(t, err)

	other := NewAuthService(config.AuthConfig{Username: "agent", Password: "pw", Secret: "another"}, nil)
	_, err = other.ValidateToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	// past expiry
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestSignOutRevokes(t *testing.T) {
	tokens := newFakeTokenCache()
	svc := NewAuthService(testAuthConfig(), tokens)
	ctx := context.Background()

	resp, err := svc.Login("agent", "pw")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, claims))
	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	// a fresh login is unaffected
	resp2, err := svc.Login("agent", "pw")
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, resp2.Token)
	assert.NoError(t, err)
}
