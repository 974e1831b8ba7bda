// Package refreshtokens declares the server-side registry of live refresh
// tokens. A refresh token is only usable while its row exists here; rotation
// and logout remove rows, nothing else does.
package refreshtokens

import "context"

// Registry tracks which refresh tokens are live and who owns them.
type Registry interface {
	// Register records token as live for accountID.
	Register(ctx context.Context, token string, accountID string) error

	// Revoke removes the token. Revoking an absent token is not an error.
	Revoke(ctx context.Context, token string) error

	// OwnerOf returns the owning account id, or common.ErrNotFound.
	OwnerOf(ctx context.Context, token string) (string, error)

	// Rotate atomically revokes oldToken and registers newToken for
	// accountID. When oldToken is no longer live (already rotated or revoked
	// by a concurrent caller) it returns common.ErrInvalidToken and registers
	// nothing, so exactly one of two racing rotations wins.
	Rotate(ctx context.Context, oldToken string, newToken string, accountID string) error
}
