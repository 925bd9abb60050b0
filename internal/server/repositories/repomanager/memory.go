package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/recipeshare/internal/dbx"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/memory"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves every repository from one memory.Store.
// The DBTX arguments are ignored; transactions are serialised.
type InMemoryRepositoryManager struct {
	store *memory.Store
	txMu  sync.Mutex
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.store.Users()
}

func (m *InMemoryRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.store.RefreshTokens()
}

func (m *InMemoryRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return m.store.Recipes()
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{store: memory.NewStore()}
}
