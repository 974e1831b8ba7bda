package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/healthlog/internal/client/api"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "keys.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHydrateEmptyKeystore(t *testing.T) {
	s := newStore(t)

	session := s.Hydrate(context.Background())
	assert.True(t, session.IsHydrated)
	assert.False(t, session.HasTokens())
	assert.Nil(t, session.Account)
}

func TestSetSessionPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)

	account := &api.Account{ID: "acc_1", Email: "user@example.com", Name: "Test User"}
	pair := &api.TokenPair{AccessToken: "at1", RefreshToken: "rt1"}
	require.NoError(t, s.SetSession(ctx, pair, account))

	current := s.Current()
	assert.Equal(t, "at1", current.AccessToken)
	assert.Equal(t, "acc_1", current.Account.ID)

	// A fresh store over the same file sees the same session.
	require.NoError(t, s.Close())
	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	session := s2.Hydrate(ctx)
	assert.Equal(t, "at1", session.AccessToken)
	assert.Equal(t, "rt1", session.RefreshToken)
	require.NotNil(t, session.Account)
	assert.Equal(t, "user@example.com", session.Account.Email)
}

func TestSetTokensKeepsAccount(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	account := &api.Account{ID: "acc_1", Email: "user@example.com"}
	require.NoError(t, s.SetSession(ctx, &api.TokenPair{AccessToken: "at1", RefreshToken: "rt1"}, account))

	require.NoError(t, s.SetTokens(ctx, &api.TokenPair{AccessToken: "at2", RefreshToken: "rt2"}))

	current := s.Current()
	assert.Equal(t, "at2", current.AccessToken)
	assert.Equal(t, "rt2", current.RefreshToken)
	require.NotNil(t, current.Account)
	assert.Equal(t, "acc_1", current.Account.ID)
}

func TestClearIsIdempotentAndSparesActiveProfile(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetActiveProfileID(ctx, "prof_1"))
	require.NoError(t, s.SetSession(ctx, &api.TokenPair{AccessToken: "at", RefreshToken: "rt"}, &api.Account{ID: "acc_1"}))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Current().HasTokens())
	assert.Nil(t, s.Current().Account)

	// Clearing an already-empty keystore is fine.
	require.NoError(t, s.Clear(ctx))

	// The profile selection is independent of the session.
	assert.Equal(t, "prof_1", s.ActiveProfileID(ctx))
}

func TestActiveProfileAbsent(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, "", s.ActiveProfileID(context.Background()))
}
