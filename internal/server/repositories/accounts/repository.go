// Package accounts declares the server-side account directory contract:
// identity rows keyed by account id and case-insensitive email.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/healthlog/internal/server/models"
)

// Repository stores accounts and their credentials. Emails are unique
// case-insensitively; there is no update or delete.
type Repository interface {
	// Create stores the account together with its credential. Returns
	// common.ErrEmailExists when the email is already taken in any casing.
	Create(ctx context.Context, account *models.Account, cred *models.Credential) (*models.Account, error)

	// FindByEmail looks an account up by email, ignoring case. Returns
	// common.ErrNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// FindByID looks an account up by id. Returns common.ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*models.Account, error)

	// CredentialByAccountID returns the stored credential for an account.
	CredentialByAccountID(ctx context.Context, accountID string) (*models.Credential, error)
}
