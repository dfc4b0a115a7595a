package comments

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	comments []models.Comment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.comments = append(r.comments, *c)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.comments {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) ListByTopic(ctx context.Context, topicID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.TopicID == topicID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *MemoryRepository) UpdateContent(ctx context.Context, id, authorID, content string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.comments {
		if r.comments[i].ID == id && r.comments[i].UserID == authorID {
			r.comments[i].Content = content
			r.comments[i].UpdatedAt = at
			return nil
		}
	}
	return common.ErrNotFound
}
