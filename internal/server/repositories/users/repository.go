package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

// Repository stores users. Username and email are each unique; a breach is
// reported as common.ErrConstraintViolation. Lookups of absent users return
// common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetRoles(ctx context.Context, username string, roles []string) error
	SetDisabled(ctx context.Context, username string, disabled bool) error
}
