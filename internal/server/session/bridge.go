// Package session turns bearer tokens into actors and answers the
// authorization questions handlers ask about them.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/auth"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Bridge resolves the actor behind a token. It holds no state of its own:
// every call verifies the token and re-reads the user.
type Bridge struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewBridge(tokens TokenVerifier, users UserFinder) *Bridge {
	return &Bridge{tokens: tokens, users: users}
}

// ResolveActor returns the enabled user named by the token subject.
// Any token or lookup problem other than a storage failure is reported as
// common.ErrUnauthenticated.
func (b *Bridge) ResolveActor(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrUnauthenticated)
	}

	claims, err := b.tokens.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthenticated, err)
	}

	user, err := b.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", common.ErrUnauthenticated)
		}
		return nil, err
	}
	if user.Disabled {
		return nil, fmt.Errorf("%w: user disabled", common.ErrUnauthenticated)
	}
	return user, nil
}

// AuthorizeSelfOrRole allows the actor to act on username's resources when
// it is that user or holds role.
func AuthorizeSelfOrRole(actor *models.User, username, role string) error {
	if actor == nil {
		return common.ErrUnauthenticated
	}
	if actor.Username == username || actor.HasRole(role) {
		return nil
	}
	return fmt.Errorf("%w: %s may not access %s", common.ErrForbidden, actor.Username, username)
}

func RequireRole(actor *models.User, role string) error {
	if actor == nil {
		return common.ErrUnauthenticated
	}
	if !actor.HasRole(role) {
		return fmt.Errorf("%w: role %q required", common.ErrForbidden, role)
	}
	return nil
}
