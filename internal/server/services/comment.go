package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvote/internal/timex"
	"github.com/google/uuid"
)

// CommentService posts comments and lets only their authors edit them.
type CommentService struct {
	repomanager repomanager.RepositoryManager
	now         timex.Clock
	newID       func() string
}

func NewCommentService(m repomanager.RepositoryManager, now timex.Clock) *CommentService {
	return &CommentService{repomanager: m, now: now, newID: uuid.NewString}
}

func (s *CommentService) Post(ctx context.Context, actor *models.User, topicID, content string) (*models.Comment, error) {
	if actor == nil {
		return nil, common.ErrUnauthenticated
	}
	if err := models.ValidateCommentContent(content); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Topics(s.repomanager.DB()).GetByID(ctx, topicID); err != nil {
		return nil, err
	}

	now := s.now()
	c := &models.Comment{
		ID:        s.newID(),
		UserID:    actor.ID,
		TopicID:   topicID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repomanager.Comments(s.repomanager.DB()).Create(ctx, c); err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return c, nil
}

// Patch replaces the content of a comment written by actor. Other users
// get ErrForbidden.
func (s *CommentService) Patch(ctx context.Context, actor *models.User, id, content string) (*models.Comment, error) {
	if actor == nil {
		return nil, common.ErrUnauthenticated
	}

	repo := s.repomanager.Comments(s.repomanager.DB())
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != actor.ID {
		return nil, fmt.Errorf("%w: comment belongs to another user", common.ErrForbidden)
	}
	if err := models.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	now := s.now()
	if err := repo.UpdateContent(ctx, c.ID, actor.ID, content, now); err != nil {
		return nil, err
	}
	c.Content = content
	c.UpdatedAt = now
	return c, nil
}

// ListByTopic returns the comments of an existing topic, oldest first.
func (s *CommentService) ListByTopic(ctx context.Context, topicID string) ([]models.Comment, error) {
	if _, err := s.repomanager.Topics(s.repomanager.DB()).GetByID(ctx, topicID); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.repomanager.DB()).ListByTopic(ctx, topicID)
}
