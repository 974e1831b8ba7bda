package bootstrap

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/healthlog/internal/client/api"
	"github.com/dmitrijs2005/healthlog/internal/client/session"
)

// fakeAPI serves getMe/refresh from maps of known tokens and counts calls.
type fakeAPI struct {
	mu           sync.Mutex
	validAccess  map[string]*api.Account
	validRefresh map[string]*api.TokenPair
	getMeCalls   int
	refreshCalls int
}

func (f *fakeAPI) GetMe(ctx context.Context, accessToken string) (*api.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getMeCalls++
	if account, ok := f.validAccess[accessToken]; ok {
		return account, nil
	}
	return nil, &api.APIError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED"}
}

func (f *fakeAPI) Refresh(ctx context.Context, refreshToken string) (*api.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if pair, ok := f.validRefresh[refreshToken]; ok {
		delete(f.validRefresh, refreshToken)
		return pair, nil
	}
	return nil, &api.APIError{Status: http.StatusUnauthorized, Code: "INVALID_TOKEN"}
}

// fakeStore is an in-memory SessionStore.
type fakeStore struct {
	session session.Session
	cleared bool
}

func (f *fakeStore) Hydrate(ctx context.Context) session.Session {
	f.session.IsHydrated = true
	return f.session
}

func (f *fakeStore) SetTokens(ctx context.Context, pair *api.TokenPair) error {
	f.session.AccessToken = pair.AccessToken
	f.session.RefreshToken = pair.RefreshToken
	return nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.cleared = true
	f.session = session.Session{IsHydrated: true}
	return nil
}

func TestBootstrapNoStoredSession(t *testing.T) {
	a := &fakeAPI{}
	store := &fakeStore{}
	c := NewController(a, store)

	state := c.Run(context.Background())

	assert.Equal(t, StateUnauthenticated, state)
	// Settling without tokens makes zero network calls.
	assert.Zero(t, a.getMeCalls)
	assert.Zero(t, a.refreshCalls)
	assert.False(t, store.cleared)
}

func TestBootstrapLiveAccessToken(t *testing.T) {
	account := &api.Account{ID: "acc_1", Email: "user@example.com"}
	a := &fakeAPI{validAccess: map[string]*api.Account{"at1": account}}
	store := &fakeStore{session: session.Session{AccessToken: "at1", RefreshToken: "rt1"}}
	c := NewController(a, store)

	state := c.Run(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "acc_1", c.Account().ID)
	assert.Equal(t, 1, a.getMeCalls)
	assert.Zero(t, a.refreshCalls)
}

func TestBootstrapExpiredAccessValidRefresh(t *testing.T) {
	account := &api.Account{ID: "acc_1", Email: "user@example.com"}
	a := &fakeAPI{
		validAccess:  map[string]*api.Account{"at2": account},
		validRefresh: map[string]*api.TokenPair{"rt1": {AccessToken: "at2", RefreshToken: "rt2"}},
	}
	store := &fakeStore{session: session.Session{AccessToken: "expired", RefreshToken: "rt1"}}
	c := NewController(a, store)

	state := c.Run(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "acc_1", c.Account().ID)
	// Exactly one refresh, getMe tried twice.
	assert.Equal(t, 1, a.refreshCalls)
	assert.Equal(t, 2, a.getMeCalls)
	// The rotated pair was persisted.
	assert.Equal(t, "at2", store.session.AccessToken)
	assert.Equal(t, "rt2", store.session.RefreshToken)
	assert.False(t, store.cleared)
}

func TestBootstrapExpiredAccessInvalidRefresh(t *testing.T) {
	a := &fakeAPI{}
	store := &fakeStore{session: session.Session{AccessToken: "expired", RefreshToken: "dead"}}
	c := NewController(a, store)

	state := c.Run(context.Background())

	assert.Equal(t, StateUnauthenticated, state)
	assert.Nil(t, c.Account())
	assert.Equal(t, 1, a.refreshCalls)
	assert.Equal(t, 1, a.getMeCalls)
	assert.True(t, store.cleared)
}

func TestBootstrapNon401FailureFailsClosed(t *testing.T) {
	a := &serverErrorAPI{}
	store := &fakeStore{session: session.Session{AccessToken: "at", RefreshToken: "rt"}}
	c := NewController(a, store)

	state := c.Run(context.Background())

	assert.Equal(t, StateUnauthenticated, state)
	// A 500 never triggers the refresh path.
	assert.Zero(t, a.refreshCalls)
	assert.True(t, store.cleared)
}

type serverErrorAPI struct {
	refreshCalls int
}

func (s *serverErrorAPI) GetMe(ctx context.Context, accessToken string) (*api.Account, error) {
	return nil, &api.APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR"}
}

func (s *serverErrorAPI) Refresh(ctx context.Context, refreshToken string) (*api.TokenPair, error) {
	s.refreshCalls++
	return nil, &api.APIError{Status: http.StatusUnauthorized, Code: "INVALID_TOKEN"}
}

func TestBootstrapRunsOncePerLaunch(t *testing.T) {
	account := &api.Account{ID: "acc_1"}
	a := &fakeAPI{validAccess: map[string]*api.Account{"at1": account}}
	store := &fakeStore{session: session.Session{AccessToken: "at1", RefreshToken: "rt1"}}
	c := NewController(a, store)

	require.Equal(t, StateAuthenticated, c.Run(context.Background()))
	require.Equal(t, StateAuthenticated, c.Run(context.Background()))

	// The second Run is a no-op.
	assert.Equal(t, 1, a.getMeCalls)
}

func TestTransitionIsPure(t *testing.T) {
	assert.Equal(t, StateAuthenticated, Transition(StateInitializing, EventAccountResolved))
	assert.Equal(t, StateUnauthenticated, Transition(StateInitializing, EventNoStoredSession))
	assert.Equal(t, StateUnauthenticated, Transition(StateInitializing, EventSessionInvalid))

	// Terminal states absorb every event.
	for _, s := range []State{StateAuthenticated, StateUnauthenticated} {
		for _, e := range []Event{EventNoStoredSession, EventAccountResolved, EventSessionInvalid} {
			assert.Equal(t, s, Transition(s, e))
		}
	}
}
