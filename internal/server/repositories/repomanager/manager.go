package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophvote/internal/dbx"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/comments"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/topics"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/votes"
)

// RepositoryManager vends repositories bound to a DBTX: either the handle
// returned by DB or the transaction passed to an InTx callback.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	DB() dbx.DBTX
	InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	Topics(db dbx.DBTX) topics.Repository
	Votes(db dbx.DBTX) votes.Repository
	Comments(db dbx.DBTX) comments.Repository
}
