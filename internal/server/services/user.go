// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login and the admin-only user
// management operations.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/auth"
	"github.com/dmitrijs2005/gophvote/internal/server/config"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvote/internal/server/session"
	"github.com/dmitrijs2005/gophvote/internal/timex"
	"github.com/google/uuid"
)

// UserService provides account operations:
// - Signup: create users with a bcrypt digest
// - Login: verify credentials and mint an access token
// - SetRoles / SetDisabled: admin-only management
type UserService struct {
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	hashCost    int
	loginTTL    time.Duration
	now         timex.Clock
	newID       func() string
	verify      func(password, digest string) bool

	absentOnce   sync.Once
	absentDigest string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, issuer *auth.Issuer, cfg *config.Config) *UserService {
	return &UserService{
		repomanager: m,
		issuer:      issuer,
		hashCost:    cfg.PasswordHashCost,
		loginTTL:    cfg.LoginTokenValidityDuration,
		now:         timex.UTCNow,
		newID:       uuid.NewString,
		verify:      auth.VerifyPassword,
	}
}

// digestForAbsentUser is what Login compares against when the username is
// unknown, so that path pays the same bcrypt cost as a wrong password.
func (s *UserService) digestForAbsentUser() string {
	s.absentOnce.Do(func() {
		s.absentDigest, _ = auth.HashPassword(uuid.NewString(), s.hashCost)
	})
	return s.absentDigest
}

// Signup validates the fields, hashes the password and stores the user.
// A taken username or email yields common.ErrConstraintViolation.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := models.ValidateSignup(username, email, password); err != nil {
		return nil, err
	}

	digest, err := auth.HashPassword(password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:             s.newID(),
		Username:       username,
		Email:          email,
		PasswordDigest: digest,
		Roles:          []string{},
		CreatedAt:      s.now(),
	}

	u, err := s.repomanager.Users(s.repomanager.DB()).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the password and returns an access token valid for the
// login TTL. Unknown, disabled and wrong-password cases are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.repomanager.DB())
	user, err := repo.GetByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		s.verify(password, s.digestForAbsentUser())
		return "", common.ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}
	if ok := s.verify(password, user.PasswordDigest); !ok || user.Disabled {
		return "", common.ErrUnauthenticated
	}

	if err := repo.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		return "", err
	}

	token, err := s.issuer.IssueToken(user.Username, s.loginTTL)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.repomanager.DB()).GetByUsername(ctx, username)
}

func (s *UserService) SetRoles(ctx context.Context, actor *models.User, username string, roles []string) error {
	if err := session.RequireRole(actor, common.RoleAdmin); err != nil {
		return err
	}
	return s.repomanager.Users(s.repomanager.DB()).SetRoles(ctx, username, models.NormalizeRoles(roles))
}

func (s *UserService) SetDisabled(ctx context.Context, actor *models.User, username string, disabled bool) error {
	if err := session.RequireRole(actor, common.RoleAdmin); err != nil {
		return err
	}
	if actor.Username == username && disabled {
		return fmt.Errorf("%w: admins cannot disable themselves", common.ErrValidation)
	}
	return s.repomanager.Users(s.repomanager.DB()).SetDisabled(ctx, username, disabled)
}

// BootstrapAdmin creates username with the admin role, or grants the role
// when the user already exists. It bypasses the actor check and is meant
// for the operator CLI only.
func (s *UserService) BootstrapAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.repomanager.DB())

	user, err := repo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, common.ErrNotFound):
		user, err = s.Signup(ctx, username, email, password)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if user.HasRole(common.RoleAdmin) {
		return user, nil
	}
	roles := append(append([]string{}, user.Roles...), common.RoleAdmin)
	if err := repo.SetRoles(ctx, username, roles); err != nil {
		return nil, err
	}
	user.Roles = models.NormalizeRoles(roles)
	return user, nil
}
