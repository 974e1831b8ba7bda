package refreshtokens

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/healthlog/internal/common"
)

// InMemoryRegistry is a mutex-guarded token -> accountID map. The single
// mutex is what makes Rotate non-interleavable per token.
type InMemoryRegistry struct {
	mu     sync.Mutex
	owners map[string]string
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{owners: make(map[string]string)}
}

func (r *InMemoryRegistry) Register(ctx context.Context, token string, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.owners[token] = accountID
	return nil
}

func (r *InMemoryRegistry) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.owners, token)
	return nil
}

func (r *InMemoryRegistry) OwnerOf(ctx context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountID, ok := r.owners[token]
	if !ok {
		return "", common.ErrNotFound
	}
	return accountID, nil
}

func (r *InMemoryRegistry) Rotate(ctx context.Context, oldToken string, newToken string, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owners[oldToken]; !ok {
		return common.ErrInvalidToken
	}
	delete(r.owners, oldToken)
	r.owners[newToken] = accountID
	return nil
}
