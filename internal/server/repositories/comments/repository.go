package comments

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByTopic returns comments oldest first.
	ListByTopic(ctx context.Context, topicID string) ([]models.Comment, error)
	// UpdateContent replaces the content only if authorID wrote the comment;
	// otherwise it reports common.ErrNotFound.
	UpdateContent(ctx context.Context, id, authorID, content string, at time.Time) error
}
