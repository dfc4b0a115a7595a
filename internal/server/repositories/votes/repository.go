// Package votes is the vote ledger storage. Every implementation makes
// "insert if absent" on (username, topic_id) a single atomic step, so
// concurrent submissions for the same pair resolve to exactly one vote.
package votes

import (
	"context"

	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

type Repository interface {
	// Add stores vote, or fails with common.ErrDuplicatedVote when the
	// voter already has a vote on the topic.
	Add(ctx context.Context, vote *models.Vote) error
	GetAll(ctx context.Context) ([]models.Vote, error)
	GetByUsername(ctx context.Context, username string) ([]models.Vote, error)
	GetByUserAndTopic(ctx context.Context, username, topicID string) (*models.Vote, error)
	// CountByTopic returns the number of votes per option id.
	CountByTopic(ctx context.Context, topicID string) (map[string]int, error)
}
