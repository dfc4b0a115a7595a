package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/auth"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	cfg, err := auth.NewSigningConfig([]byte("test-key"), "HS256")
	require.NoError(t, err)
	return auth.NewIssuer(cfg, 0)
}

func seedUser(t *testing.T, repo *users.MemoryRepository, u *models.User) {
	t.Helper()
	_, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
}

type failingFinder struct{ err error }

func (f failingFinder) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, f.err
}

func TestResolveActor(t *testing.T) {
	issuer := newIssuer(t)
	repo := users.NewMemoryRepository()
	seedUser(t, repo, &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"})
	seedUser(t, repo, &models.User{ID: "u2", Username: "bob", Email: "bob@example.com", Disabled: true})

	b := NewBridge(issuer, repo)
	ctx := context.Background()

	alice, err := issuer.IssueToken("alice", time.Minute)
	require.NoError(t, err)
	bob, err := issuer.IssueToken("bob", time.Minute)
	require.NoError(t, err)
	ghost, err := issuer.IssueToken("ghost", time.Minute)
	require.NoError(t, err)

	actor, err := b.ResolveActor(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "u1", actor.ID)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"disabled user", bob},
		{"unknown user", ghost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.ResolveActor(ctx, tt.token)
			assert.ErrorIs(t, err, common.ErrUnauthenticated)
		})
	}
}

func TestResolveActor_ForeignKey(t *testing.T) {
	repo := users.NewMemoryRepository()
	seedUser(t, repo, &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"})

	other, err := auth.NewSigningConfig([]byte("other-key"), "HS256")
	require.NoError(t, err)
	token, err := auth.NewIssuer(other, 0).IssueToken("alice", time.Minute)
	require.NoError(t, err)

	_, err = NewBridge(newIssuer(t), repo).ResolveActor(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestResolveActor_StorageError(t *testing.T) {
	issuer := newIssuer(t)
	token, err := issuer.IssueToken("alice", time.Minute)
	require.NoError(t, err)

	boom := errors.New("db down")
	_, err = NewBridge(issuer, failingFinder{err: boom}).ResolveActor(context.Background(), token)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthorizeSelfOrRole(t *testing.T) {
	alice := &models.User{Username: "alice"}
	admin := &models.User{Username: "root", Roles: []string{common.RoleAdmin}}

	assert.NoError(t, AuthorizeSelfOrRole(alice, "alice", common.RoleAdmin))
	assert.NoError(t, AuthorizeSelfOrRole(admin, "alice", common.RoleAdmin))
	assert.ErrorIs(t, AuthorizeSelfOrRole(alice, "bob", common.RoleAdmin), common.ErrForbidden)
	assert.ErrorIs(t, AuthorizeSelfOrRole(nil, "bob", common.RoleAdmin), common.ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(&models.User{Roles: []string{"admin"}}, "admin"))
	assert.ErrorIs(t, RequireRole(&models.User{}, "admin"), common.ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, "admin"), common.ErrUnauthenticated)
}
