// Package repomanager provides RepositoryManager implementations for
// PostgreSQL (with goose migrations) and for process memory.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/dbx"
	"github.com/dmitrijs2005/gophvote/internal/server/migrations"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/comments"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/topics"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/votes"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// OpenPostgres opens a pgx-backed pool and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(20)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// PostgresRepositoryManager vends PostgreSQL-backed repositories. The vote
// ledger can be swapped for another store with WithVoteStore.
type PostgresRepositoryManager struct {
	db        *sql.DB
	voteStore votes.Repository
}

type Option func(*PostgresRepositoryManager)

// WithVoteStore serves votes from r instead of the votes table.
func WithVoteStore(r votes.Repository) Option {
	return func(m *PostgresRepositoryManager) {
		m.voteStore = r
	}
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB, opts ...Option) (RepositoryManager, error) {
	if db == nil {
		return nil, fmt.Errorf("nil database handle")
	}
	m := &PostgresRepositoryManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *PostgresRepositoryManager) DB() dbx.DBTX {
	return m.db
}

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// InTx runs fn inside a database transaction.
func (m *PostgresRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, m.db, nil, fn)
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Topics returns a topics.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Topics(db dbx.DBTX) topics.Repository {
	return topics.NewPostgresRepository(db)
}

// Votes returns the configured vote store, or the votes table bound to db.
func (m *PostgresRepositoryManager) Votes(db dbx.DBTX) votes.Repository {
	if m.voteStore != nil {
		return m.voteStore
	}
	return votes.NewPostgresRepository(db)
}

// Comments returns a comments.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Comments(db dbx.DBTX) comments.Repository {
	return comments.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}
