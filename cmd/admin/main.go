// Command admin creates or promotes an administrator account in the
// configured PostgreSQL database. It accepts the same -c/-d/-env-file
// options as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/gophvote/internal/admin"
	"github.com/dmitrijs2005/gophvote/internal/server/auth"
	"github.com/dmitrijs2005/gophvote/internal/server/config"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvote/internal/server/services"
)

func main() {
	if err := run(context.Background(), config.LoadConfig(), os.Stdin, os.Stdout); err != nil {
		log.Fatalf("admin: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (err error) {
	if cfg.StorageBackend != config.StoragePostgres {
		return fmt.Errorf("admin accounts can only be created in %q storage", config.StoragePostgres)
	}

	signing, err := auth.NewSigningConfig([]byte(cfg.SecretKey), cfg.SigningAlgorithm)
	if err != nil {
		return err
	}

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	m, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return err
	}
	if err := m.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	users := services.NewUserService(m, auth.NewIssuer(signing, cfg.AccessTokenValidityDuration), cfg)
	return admin.Run(ctx, in, out, users)
}
