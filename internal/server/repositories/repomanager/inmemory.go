package repomanager

import (
	"context"

	"github.com/dmitrijs2005/healthlog/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/refreshtokens"
)

// InMemoryManager serves the stores out of process memory. State is empty at
// startup and does not survive restarts.
type InMemoryManager struct {
	accounts      *accounts.InMemoryRepository
	refreshTokens *refreshtokens.InMemoryRegistry
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		accounts:      accounts.NewInMemoryRepository(),
		refreshTokens: refreshtokens.NewInMemoryRegistry(),
	}
}

func (m *InMemoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryManager) Close() error { return nil }

func (m *InMemoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *InMemoryManager) RefreshTokens() refreshtokens.Registry { return m.refreshTokens }
