package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/healthlog/internal/common"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/healthlog/internal/server/tokens"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	codec := tokens.NewCodec([]byte("test-secret"), time.Minute, time.Hour)
	return NewAuthService(accounts.NewInMemoryRepository(), refreshtokens.NewInMemoryRegistry(), codec)
}

func TestRegisterIssuesVerifiablePair(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)
	require.NotNil(t, res.Account)
	require.NotNil(t, res.Tokens)

	accountID, err := s.VerifyAccess(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.Account.ID, accountID)
	assert.Equal(t, "en", res.Account.Settings.Language)
}

func TestRegisterDuplicateEmailAnyCasing(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	_, err = s.Register(ctx, "USER@EXAMPLE.COM", "other456", "Someone Else")
	assert.ErrorIs(t, err, common.ErrEmailExists)
}

func TestLogin(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	res, err := s.Login(ctx, "user@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.Account.ID, res.Account.ID)

	accountID, err := s.VerifyAccess(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.Account.ID, accountID)
}

func TestLoginConflatesUnknownEmailAndWrongPassword(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	_, err = s.Login(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginKeepsOtherSessionsAlive(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	first, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	_, err = s.Login(ctx, "user@example.com", "secret123")
	require.NoError(t, err)

	// The pair from registration still refreshes after a second login.
	_, err = s.Refresh(ctx, first.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRotatesOnce(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	pair, err := s.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.Tokens.RefreshToken, pair.RefreshToken)

	// Replaying the consumed token fails.
	_, err = s.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	// The rotated token works.
	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	_, err = s.Refresh(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	s := newAuthService(t)

	_, err := s.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestLogoutThenRefreshFails(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	s.Logout(ctx, res.Tokens.RefreshToken)

	_, err = s.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	// Logging out an already-dead token is a no-op.
	s.Logout(ctx, res.Tokens.RefreshToken)
	s.Logout(ctx, "never-a-token")
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	_, err = s.VerifyAccess(res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetAccountByID(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, "user@example.com", "secret123", "Test User")
	require.NoError(t, err)

	account, err := s.GetAccountByID(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", account.Email)

	_, err = s.GetAccountByID(ctx, "acc_missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
