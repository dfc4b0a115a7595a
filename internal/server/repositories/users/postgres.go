package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/dbx"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	roles, err := json.Marshal(models.NormalizeRoles(user.Roles))
	if err != nil {
		return nil, fmt.Errorf("encode roles: %w", err)
	}

	query :=
		`INSERT INTO users (id, username, email, password_digest, roles, created_at, disabled)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordDigest, string(roles), user.CreatedAt, user.Disabled)

	if err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return nil, fmt.Errorf("%w: username or email already registered", common.ErrConstraintViolation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_digest, roles, last_login_at, created_at, disabled FROM users
		 WHERE username = $1
		 `

	var (
		user      models.User
		roles     []byte
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordDigest, &roles, &lastLogin, &user.CreatedAt, &user.Disabled)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(roles, &user.Roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query :=
		`UPDATE users SET last_login_at = $2
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, id, at)
}

func (r *PostgresRepository) SetRoles(ctx context.Context, username string, roles []string) error {
	b, err := json.Marshal(models.NormalizeRoles(roles))
	if err != nil {
		return fmt.Errorf("encode roles: %w", err)
	}

	query :=
		`UPDATE users SET roles = $2
		 WHERE username = $1
		 `
	return r.execOne(ctx, query, username, string(b))
}

func (r *PostgresRepository) SetDisabled(ctx context.Context, username string, disabled bool) error {
	query :=
		`UPDATE users SET disabled = $2
		 WHERE username = $1
		 `
	return r.execOne(ctx, query, username, disabled)
}

// execOne runs an UPDATE that must touch exactly one row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
