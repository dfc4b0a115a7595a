package topics

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
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `SELECT id, description, starts_at, ends_at, options, created_by, stage, created_at, updated_at FROM topics`

func (r *PostgresRepository) Create(ctx context.Context, topic *models.Topic) error {
	options, err := json.Marshal(topic.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	query :=
		`INSERT INTO topics (id, description, starts_at, ends_at, options, created_by, stage, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `

	_, err = r.db.ExecContext(ctx, query,
		topic.ID, topic.Description, topic.StartsAt, topic.EndsAt, string(options),
		topic.CreatedBy, string(topic.Stage), topic.CreatedAt, topic.UpdatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	// a malformed id cannot name any row
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}

	query := selectColumns + `
		 WHERE id = $1
		 `

	topic, err := scanTopic(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	return topic, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.Topic, error) {
	query := selectColumns + `
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Topic, 0)
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *topic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateBeforeStart(ctx context.Context, topic *models.Topic, now time.Time) error {
	options, err := json.Marshal(topic.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	query :=
		`UPDATE topics
		 SET description = $2, starts_at = $3, ends_at = $4, options = $5, stage = $6, updated_at = $7
		 WHERE id = $1 AND starts_at > $8
		 `

	res, err := r.db.ExecContext(ctx, query,
		topic.ID, topic.Description, topic.StartsAt, topic.EndsAt, string(options),
		string(topic.Stage), topic.UpdatedAt, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrEditWindowClosed
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (*models.Topic, error) {
	var (
		t       models.Topic
		options []byte
		stage   string
	)

	err := row.Scan(&t.ID, &t.Description, &t.StartsAt, &t.EndsAt, &options, &t.CreatedBy, &stage, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(options, &t.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	t.Stage = models.Stage(stage)

	return &t, nil
}
