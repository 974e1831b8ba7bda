package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/healthlog/internal/client/bootstrap"
)

// Status runs the bootstrap sequence against the stored session and reports
// the outcome.
func (a *App) Status(ctx context.Context) error {
	controller := bootstrap.NewController(a.api, a.store)

	state := controller.Run(ctx)
	fmt.Fprintf(a.out, "Session: %s\n", state)

	if state == bootstrap.StateAuthenticated {
		account := controller.Account()
		fmt.Fprintf(a.out, "Account: %s (%s)\n", account.Name, account.Email)
	}

	if profileID := a.store.ActiveProfileID(ctx); profileID != "" {
		fmt.Fprintf(a.out, "Active profile: %s\n", profileID)
	}
	return nil
}

// UseProfile remembers the active profile selection. The id is not verified
// against the server; a stale selection is tolerated everywhere it is read.
func (a *App) UseProfile(ctx context.Context, profileID string) error {
	if err := a.store.SetActiveProfileID(ctx, profileID); err != nil {
		return fmt.Errorf("profile selection store error: %w", err)
	}
	fmt.Fprintf(a.out, "Active profile set to %s\n", profileID)
	return nil
}
