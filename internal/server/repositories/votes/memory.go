package votes

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

type voteKey struct {
	username string
	topicID  string
}

// MemoryRepository is a single-process ledger. The check and the insert
// happen under one lock, which plays the role of the unique index.
type MemoryRepository struct {
	mu     sync.RWMutex
	byKey  map[voteKey]int
	ledger []models.Vote
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byKey: make(map[voteKey]int)}
}

func (r *MemoryRepository) Add(ctx context.Context, vote *models.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := voteKey{username: vote.Username, topicID: vote.TopicID}
	if _, ok := r.byKey[k]; ok {
		return common.ErrDuplicatedVote
	}
	r.byKey[k] = len(r.ledger)
	r.ledger = append(r.ledger, *vote)
	return nil
}

func (r *MemoryRepository) GetAll(ctx context.Context) ([]models.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(make([]models.Vote, 0, len(r.ledger)), r.ledger...), nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) ([]models.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Vote, 0)
	for _, v := range r.ledger {
		if v.Username == username {
			result = append(result, v)
		}
	}
	return result, nil
}

func (r *MemoryRepository) GetByUserAndTopic(ctx context.Context, username, topicID string) (*models.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byKey[voteKey{username: username, topicID: topicID}]
	if !ok {
		return nil, common.ErrNotFound
	}
	v := r.ledger[i]
	return &v, nil
}

func (r *MemoryRepository) CountByTopic(ctx context.Context, topicID string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, v := range r.ledger {
		if v.TopicID == topicID {
			counts[v.OptionID]++
		}
	}
	return counts, nil
}
