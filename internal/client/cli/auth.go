package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/healthlog/internal/common"
)

// Register creates an account and stores the first session.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Register(ctx, email, string(password), name)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := a.store.SetSession(ctx, res.Tokens, res.Account); err != nil {
		return fmt.Errorf("session store error: %w", err)
	}

	fmt.Fprintf(a.out, "Registered as %s\n", res.Account.Email)
	return nil
}

// Login signs in and stores the session.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.store.SetSession(ctx, res.Tokens, res.Account); err != nil {
		return fmt.Errorf("session store error: %w", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", res.Account.Email)
	return nil
}

// Logout revokes the stored refresh token server-side, then clears local
// state. Local state is cleared even when the server call fails: the user
// asked to be signed out of this device.
func (a *App) Logout(ctx context.Context) error {
	sess := a.store.Hydrate(ctx)

	if sess.RefreshToken != "" {
		if err := a.api.Logout(ctx, sess.RefreshToken); err != nil {
			fmt.Fprintf(a.out, "Server logout failed (%v), clearing local session anyway\n", err)
		}
	}

	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("session clear error: %w", err)
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}
