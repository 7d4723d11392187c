package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/microblog/internal/server/repositories/likes"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/memory"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
)

// MemoryRepositoryManager serves repositories from a memory.Store.
// Transactions are serialized with each other but are not rolled back on
// error; the store's own cascade keeps post deletion consistent.
type MemoryRepositoryManager struct {
	store *memory.Store
	txMu  sync.Mutex
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.store.Users() }
func (m *MemoryRepositoryManager) Posts() posts.Repository { return m.store.Posts() }
func (m *MemoryRepositoryManager) Likes() likes.Repository { return m.store.Likes() }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
