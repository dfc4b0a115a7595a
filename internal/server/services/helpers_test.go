package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/server/auth"
	"github.com/dmitrijs2005/gophvote/internal/server/config"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	clock    *fakeClock
	repos    *repomanager.MemoryRepositoryManager
	issuer   *auth.Issuer
	users    *UserService
	topics   *TopicService
	votes    *VoteService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{now: t0}
	repos := repomanager.NewMemoryRepositoryManager(nil)

	signing, err := auth.NewSigningConfig([]byte("test-secret"), "HS256")
	require.NoError(t, err)
	issuer := auth.NewIssuer(signing, 0)

	cfg := &config.Config{
		PasswordHashCost:           bcrypt.MinCost,
		LoginTokenValidityDuration: 300 * time.Minute,
	}
	us := NewUserService(repos, issuer, cfg)
	us.now = clock.Now

	return &fixture{
		clock:    clock,
		repos:    repos,
		issuer:   issuer,
		users:    us,
		topics:   NewTopicService(repos, clock.Now),
		votes:    NewVoteService(repos, clock.Now),
		comments: NewCommentService(repos, clock.Now),
	}
}

func (f *fixture) signup(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := f.users.Signup(context.Background(), username, username+"@example.com", "pw-"+username)
	require.NoError(t, err)
	return u
}

// twoOptionTopic opens one hour after t0 and closes one hour later.
func twoOptionTopic() models.TopicInput {
	return models.TopicInput{
		Description: "lunch",
		StartsAt:    t0.Add(time.Hour),
		EndsAt:      t0.Add(2 * time.Hour),
		Options: []models.OptionInput{
			{Label: "pizza"},
			{Label: "sushi"},
		},
	}
}
