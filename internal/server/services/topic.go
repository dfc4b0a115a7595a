package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/dbx"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvote/internal/server/session"
	"github.com/dmitrijs2005/gophvote/internal/timex"
	"github.com/google/uuid"
)

// TopicService creates and edits topics. Stage is recomputed from the clock
// on every read.
type TopicService struct {
	repomanager repomanager.RepositoryManager
	now         timex.Clock
	newID       func() string
}

func NewTopicService(m repomanager.RepositoryManager, now timex.Clock) *TopicService {
	return &TopicService{repomanager: m, now: now, newID: uuid.NewString}
}

func (s *TopicService) Create(ctx context.Context, actor *models.User, in models.TopicInput) (*models.Topic, error) {
	if actor == nil {
		return nil, common.ErrUnauthenticated
	}

	topic, err := models.NewTopic(in, actor.Username, s.now(), s.newID)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Topics(s.repomanager.DB()).Create(ctx, &topic); err != nil {
		return nil, fmt.Errorf("error creating topic: %w", err)
	}
	return &topic, nil
}

// Update edits a topic that has not started yet. Only its author or an
// admin may edit it. The write is guarded in storage so a window that opens
// between the read and the write still fails with ErrEditWindowClosed.
func (s *TopicService) Update(ctx context.Context, actor *models.User, id string, in models.TopicInput) (*models.Topic, error) {
	var updated models.Topic

	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Topics(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := session.AuthorizeSelfOrRole(actor, current.CreatedBy, common.RoleAdmin); err != nil {
			return err
		}

		now := s.now()
		next, err := models.ApplyTopicUpdate(*current, in, now, s.newID)
		if err != nil {
			return err
		}
		if err := repo.UpdateBeforeStart(ctx, &next, now); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *TopicService) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	t, err := s.repomanager.Topics(s.repomanager.DB()).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	refreshed := t.Refreshed(s.now())
	return &refreshed, nil
}

func (s *TopicService) GetAll(ctx context.Context) ([]models.Topic, error) {
	list, err := s.repomanager.Topics(s.repomanager.DB()).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range list {
		list[i] = list[i].Refreshed(now)
	}
	return list, nil
}
