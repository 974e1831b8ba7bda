// Package bootstrap decides, once per launch, whether the stored session is
// still usable. The policy is fail-closed: a stored pair that cannot be
// proven live after at most one refresh-then-retry is cleared.
package bootstrap

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/healthlog/internal/client/api"
	"github.com/dmitrijs2005/healthlog/internal/client/session"
)

// API is the slice of the REST client the controller needs.
type API interface {
	GetMe(ctx context.Context, accessToken string) (*api.Account, error)
	Refresh(ctx context.Context, refreshToken string) (*api.TokenPair, error)
}

// SessionStore is the slice of the session store the controller needs.
type SessionStore interface {
	Hydrate(ctx context.Context) session.Session
	SetTokens(ctx context.Context, pair *api.TokenPair) error
	Clear(ctx context.Context) error
}

// Controller runs the bootstrap sequence. Run is guarded so overlapping
// launches cannot trigger duplicate refreshes.
type Controller struct {
	api   API
	store SessionStore

	mu      sync.Mutex
	ran     bool
	state   State
	account *api.Account
}

func NewController(a API, store SessionStore) *Controller {
	return &Controller{api: a, store: store, state: StateInitializing}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Account returns the resolved account, non-nil only when Authenticated.
func (c *Controller) Account() *api.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

// Run executes the bootstrap sequence once. Later calls return the settled
// state without touching storage or the network.
func (c *Controller) Run(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ran {
		return c.state
	}
	c.ran = true

	sess := c.store.Hydrate(ctx)
	if !sess.HasTokens() {
		// Nothing stored: settle without a single network call.
		c.state = Transition(c.state, EventNoStoredSession)
		return c.state
	}

	account, err := c.api.GetMe(ctx, sess.AccessToken)
	if err == nil {
		c.account = account
		c.state = Transition(c.state, EventAccountResolved)
		return c.state
	}

	if isAuthFailure(err) && sess.RefreshToken != "" {
		if account = c.retryAfterRefresh(ctx, sess.RefreshToken); account != nil {
			c.account = account
			c.state = Transition(c.state, EventAccountResolved)
			return c.state
		}
	}

	// Fail closed: anything short of a resolved account clears the session.
	_ = c.store.Clear(ctx)
	c.state = Transition(c.state, EventSessionInvalid)
	return c.state
}

// retryAfterRefresh performs the single allowed refresh, persists the new
// pair, and retries getMe once. A nil return means the session is dead.
func (c *Controller) retryAfterRefresh(ctx context.Context, refreshToken string) *api.Account {
	pair, err := c.api.Refresh(ctx, refreshToken)
	if err != nil {
		return nil
	}

	// Persist before use, so a crash here cannot lose the rotated pair.
	if err := c.store.SetTokens(ctx, pair); err != nil {
		return nil
	}

	account, err := c.api.GetMe(ctx, pair.AccessToken)
	if err != nil {
		return nil
	}
	return account
}

func isAuthFailure(err error) bool {
	var apiErr *api.APIError
	return errors.As(err, &apiErr) && apiErr.IsAuthFailure()
}
