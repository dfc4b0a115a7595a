package votes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Add(ctx context.Context, vote *models.Vote) error {
	query :=
		`INSERT INTO votes (id, username, topic_id, option_id, created_at)
         VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username, topic_id) DO NOTHING
		 RETURNING id
		 `

	var id string
	err := r.db.QueryRowContext(ctx, query,
		vote.ID, vote.Username, vote.TopicID, vote.OptionID, vote.CreatedAt).Scan(&id)

	if err != nil {
		// nothing returned: the conflict clause swallowed the insert
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrDuplicatedVote
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.Vote, error) {
	query :=
		`SELECT id, username, topic_id, option_id, created_at FROM votes
		 ORDER BY created_at, id
		 `
	return r.list(ctx, query)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) ([]models.Vote, error) {
	query :=
		`SELECT id, username, topic_id, option_id, created_at FROM votes
		 WHERE username = $1
		 ORDER BY created_at, id
		 `
	return r.list(ctx, query, username)
}

func (r *PostgresRepository) GetByUserAndTopic(ctx context.Context, username, topicID string) (*models.Vote, error) {
	if _, err := uuid.Parse(topicID); err != nil {
		return nil, common.ErrNotFound
	}

	query :=
		`SELECT id, username, topic_id, option_id, created_at FROM votes
		 WHERE username = $1 AND topic_id = $2
		 `

	var v models.Vote
	err := r.db.QueryRowContext(ctx, query, username, topicID).Scan(&v.ID, &v.Username, &v.TopicID, &v.OptionID, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &v, nil
}

func (r *PostgresRepository) CountByTopic(ctx context.Context, topicID string) (map[string]int, error) {
	counts := make(map[string]int)
	if _, err := uuid.Parse(topicID); err != nil {
		return counts, nil
	}

	query :=
		`SELECT option_id, COUNT(*) FROM votes
		 WHERE topic_id = $1
		 GROUP BY option_id
		 `

	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			optionID string
			n        int
		)
		if err := rows.Scan(&optionID, &n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts[optionID] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counts, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Vote, 0)
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.Username, &v.TopicID, &v.OptionID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
