// Package server wires configuration, storage, services and the HTTP API
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophvote/internal/logging"
	"github.com/dmitrijs2005/gophvote/internal/server/auth"
	"github.com/dmitrijs2005/gophvote/internal/server/config"
	"github.com/dmitrijs2005/gophvote/internal/server/httpapi"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/votes"
	"github.com/dmitrijs2005/gophvote/internal/server/services"
	"github.com/dmitrijs2005/gophvote/internal/server/session"
	"github.com/dmitrijs2005/gophvote/internal/timex"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	repos     repomanager.RepositoryManager
	readiness httpapi.Pinger
	closers   []io.Closer
	http      *httpapi.HTTPServer
}

// NewApp opens storage, applies migrations and builds the HTTP server.
// Anything opened before a failure is closed again.
func NewApp(ctx context.Context, c *config.Config) (app *App, err error) {
	app = &App{
		config: c,
		logger: logging.NewJSONLogger(os.Stdout, c.LogLevel),
	}
	defer func() {
		if err != nil {
			app.close(ctx)
			app = nil
		}
	}()

	signing, err := auth.NewSigningConfig([]byte(c.SecretKey), c.SigningAlgorithm)
	if err != nil {
		return app, fmt.Errorf("signing config: %w", err)
	}
	issuer := auth.NewIssuer(signing, c.AccessTokenValidityDuration)

	if app.readiness, err = app.openStorage(ctx); err != nil {
		return app, err
	}

	if err := app.repos.RunMigrations(ctx); err != nil {
		return app, fmt.Errorf("migrations: %w", err)
	}

	users := services.NewUserService(app.repos, issuer, c)
	app.http = httpapi.NewHTTPServer(c.EndpointAddrHTTP, app.logger, httpapi.Services{
		Users:    users,
		Topics:   services.NewTopicService(app.repos, timex.UTCNow),
		Votes:    services.NewVoteService(app.repos, timex.UTCNow),
		Comments: services.NewCommentService(app.repos, timex.UTCNow),
		Bridge:   session.NewBridge(issuer, users),
		Storage:  app.readiness,
	})

	return app, nil
}

// openStorage builds the repository manager selected by the config and
// returns what the readiness probe should ping.
func (app *App) openStorage(ctx context.Context) (httpapi.Pinger, error) {
	c := app.config
	probes := pingAll{}

	var voteStore votes.Repository
	switch c.VoteStore {
	case config.VoteStoreDefault, "":
	case config.VoteStoreRedis:
		client, err := votes.NewRedisClient(ctx, c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, client)
		redisVotes := votes.NewRedisRepository(client)
		voteStore = redisVotes
		probes = append(probes, redisVotes)
	default:
		return nil, fmt.Errorf("unknown vote store %q", c.VoteStore)
	}

	switch c.StorageBackend {
	case config.StorageMemory:
		app.repos = repomanager.NewMemoryRepositoryManager(voteStore)
	case config.StoragePostgres, "":
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.closers = append(app.closers, db)

		var opts []repomanager.Option
		if voteStore != nil {
			opts = append(opts, repomanager.WithVoteStore(voteStore))
		}
		if app.repos, err = newPostgresManager(db, opts...); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	return append(pingAll{app.repos}, probes...), nil
}

func newPostgresManager(db *sql.DB, opts ...repomanager.Option) (repomanager.RepositoryManager, error) {
	m, err := repomanager.NewPostgresRepositoryManager(db, opts...)
	if err != nil {
		return nil, fmt.Errorf("repository manager: %w", err)
	}
	return m, nil
}

type pingAll []httpapi.Pinger

func (p pingAll) Ping(ctx context.Context) error {
	var errs []error
	for _, probe := range p {
		if err := probe.Ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then releases storage connections.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
	return runErr
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error(ctx, "close failed", "error", err)
		}
	}
	app.closers = nil
}
