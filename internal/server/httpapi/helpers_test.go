package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/logging"
	"github.com/dmitrijs2005/gophvote/internal/server/auth"
	"github.com/dmitrijs2005/gophvote/internal/server/config"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvote/internal/server/services"
	"github.com/dmitrijs2005/gophvote/internal/server/session"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type testEnv struct {
	t       *testing.T
	clock   *testClock
	svc     Services
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &testClock{now: t0}
	repos := repomanager.NewMemoryRepositoryManager(nil)

	signing, err := auth.NewSigningConfig([]byte("test-secret"), "HS256")
	require.NoError(t, err)
	issuer := auth.NewIssuer(signing, 0)

	users := services.NewUserService(repos, issuer, &config.Config{
		PasswordHashCost:           bcrypt.MinCost,
		LoginTokenValidityDuration: time.Hour,
	})

	svc := Services{
		Users:    users,
		Topics:   services.NewTopicService(repos, clock.Now),
		Votes:    services.NewVoteService(repos, clock.Now),
		Comments: services.NewCommentService(repos, clock.Now),
		Bridge:   session.NewBridge(issuer, users),
		Storage:  repos,
	}

	return &testEnv{
		t:       t,
		clock:   clock,
		svc:     svc,
		handler: NewHTTPServer("127.0.0.1:0", nopLogger{}, svc).Handler(),
	}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// register signs a user up and returns a bearer token for them.
func (e *testEnv) register(username string) string {
	e.t.Helper()

	rec := e.do(http.MethodPost, "/user/signup", "", signupRequest{
		Username: username, Email: username + "@example.com", Password: "pw-" + username,
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(http.MethodPost, "/auth/token", "", tokenRequest{Username: username, Password: "pw-" + username})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[tokenResponse](e.t, rec).AccessToken
}

func (e *testEnv) registerAdmin(username string) string {
	e.t.Helper()

	_, err := e.svc.Users.BootstrapAdmin(context.Background(), username, username+"@example.com", "pw-"+username)
	require.NoError(e.t, err)

	rec := e.do(http.MethodPost, "/auth/token", "", tokenRequest{Username: username, Password: "pw-" + username})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[tokenResponse](e.t, rec).AccessToken
}

func lunchTopic() topicRequest {
	return topicRequest{
		Description: "lunch",
		StartsAt:    t0.Add(time.Hour),
		EndsAt:      t0.Add(2 * time.Hour),
		Options:     []optionRequest{{Label: "pizza"}, {Label: "sushi"}},
	}
}

func (e *testEnv) createTopic(token string) topicResponse {
	e.t.Helper()

	rec := e.do(http.MethodPost, "/topic", token, lunchTopic())
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[idResponse](e.t, rec).ID

	rec = e.do(http.MethodGet, "/topic/"+id, "", nil)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[topicResponse](e.t, rec)
}
