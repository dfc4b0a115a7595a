package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophvote/internal/dbx"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/comments"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/topics"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/votes"
)

// MemoryRepositoryManager keeps everything in process memory. It ignores
// the DBTX arguments and serialises InTx callbacks.
type MemoryRepositoryManager struct {
	txMu     sync.Mutex
	users    *users.MemoryRepository
	topics   *topics.MemoryRepository
	votes    votes.Repository
	comments *comments.MemoryRepository
}

// NewMemoryRepositoryManager builds an empty store. A non-nil voteStore
// replaces the in-memory ledger.
func NewMemoryRepositoryManager(voteStore votes.Repository) *MemoryRepositoryManager {
	if voteStore == nil {
		voteStore = votes.NewMemoryRepository()
	}
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		topics:   topics.NewMemoryRepository(),
		votes:    voteStore,
		comments: comments.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) DB() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Topics(dbx.DBTX) topics.Repository { return m.topics }

func (m *MemoryRepositoryManager) Votes(dbx.DBTX) votes.Repository { return m.votes }

func (m *MemoryRepositoryManager) Comments(dbx.DBTX) comments.Repository { return m.comments }
