// Package repomanager bundles the server-side stores behind one interface so
// the application can run against either in-memory tables or Postgres. The
// manager is constructed explicitly and injected; there are no package-level
// registries.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/healthlog/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/refreshtokens"
)

type Manager interface {
	RunMigrations(ctx context.Context) error
	Close() error
	Accounts() accounts.Repository
	RefreshTokens() refreshtokens.Registry
}
