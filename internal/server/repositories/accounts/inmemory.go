package accounts

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/healthlog/internal/common"
	"github.com/dmitrijs2005/healthlog/internal/server/models"
)

// InMemoryRepository keeps accounts in process memory. State lives for the
// process lifetime; instances are independent so tests can create their own.
type InMemoryRepository struct {
	mu          sync.RWMutex
	byID        map[string]*models.Account
	idByEmail   map[string]string
	credentials map[string]*models.Credential
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:        make(map[string]*models.Account),
		idByEmail:   make(map[string]string),
		credentials: make(map[string]*models.Credential),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, account *models.Account, cred *models.Credential) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(account.Email)
	if _, taken := r.idByEmail[key]; taken {
		return nil, common.ErrEmailExists
	}

	stored := *account
	r.byID[account.ID] = &stored
	r.idByEmail[key] = account.ID
	storedCred := *cred
	r.credentials[account.ID] = &storedCred

	return account, nil
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r.copyOf(id)
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.copyOf(id)
}

func (r *InMemoryRepository) CredentialByAccountID(ctx context.Context, accountID string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.credentials[accountID]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *cred
	return &c, nil
}

// copyOf must be called with the mutex held.
func (r *InMemoryRepository) copyOf(id string) (*models.Account, error) {
	account, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	a := *account
	return &a, nil
}
