package topics

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	topics map[string]models.Topic
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{topics: make(map[string]models.Topic)}
}

func (r *MemoryRepository) Create(ctx context.Context, topic *models.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.topics[topic.ID] = clone(*topic)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.topics[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := clone(t)
	return &c, nil
}

func (r *MemoryRepository) GetAll(ctx context.Context) ([]models.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Topic, 0, len(r.topics))
	for _, t := range r.topics {
		result = append(result, clone(t))
	}
	slices.SortStableFunc(result, func(a, b models.Topic) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) UpdateBeforeStart(ctx context.Context, topic *models.Topic, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.topics[topic.ID]
	if !ok || !stored.StartsAt.After(now) {
		return common.ErrEditWindowClosed
	}

	next := clone(*topic)
	next.CreatedAt = stored.CreatedAt
	next.CreatedBy = stored.CreatedBy
	r.topics[topic.ID] = next
	return nil
}

func clone(t models.Topic) models.Topic {
	t.Options = slices.Clone(t.Options)
	return t
}
