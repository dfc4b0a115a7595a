package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/dmitrijs2005/gophvote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvote/internal/timex"
	"github.com/google/uuid"
)

// VoteService records ballots. At most one vote per user and topic is
// enforced by the vote store itself, not here.
type VoteService struct {
	repomanager repomanager.RepositoryManager
	now         timex.Clock
	newID       func() string
}

func NewVoteService(m repomanager.RepositoryManager, now timex.Clock) *VoteService {
	return &VoteService{repomanager: m, now: now, newID: uuid.NewString}
}

// Add casts actor's vote for optionID on topicID. It fails with
// ErrUnknownTopic, ErrUnknownOption, ErrVotingNotOpen or, when actor has
// already voted on the topic, ErrDuplicatedVote.
func (s *VoteService) Add(ctx context.Context, actor *models.User, topicID, optionID string) (*models.Vote, error) {
	if actor == nil {
		return nil, common.ErrUnauthenticated
	}

	topic, err := s.repomanager.Topics(s.repomanager.DB()).GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w %s", common.ErrUnknownTopic, topicID)
		}
		return nil, err
	}
	if _, ok := topic.Option(optionID); !ok {
		return nil, fmt.Errorf("%w %s", common.ErrUnknownOption, optionID)
	}

	now := s.now()
	if stage := topic.StageAt(now); stage != models.StageInProgress {
		return nil, fmt.Errorf("%w: topic is %s", common.ErrVotingNotOpen, stage)
	}

	vote := &models.Vote{
		ID:        s.newID(),
		Username:  actor.Username,
		TopicID:   topic.ID,
		OptionID:  optionID,
		CreatedAt: now,
	}
	if err := s.repomanager.Votes(s.repomanager.DB()).Add(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

func (s *VoteService) GetAll(ctx context.Context) ([]models.Vote, error) {
	return s.repomanager.Votes(s.repomanager.DB()).GetAll(ctx)
}

// GetForUser lists username's votes. Callers decide who may ask.
func (s *VoteService) GetForUser(ctx context.Context, username string) ([]models.Vote, error) {
	return s.repomanager.Votes(s.repomanager.DB()).GetByUsername(ctx, username)
}

func (s *VoteService) GetMine(ctx context.Context, actor *models.User, topicID string) (*models.Vote, error) {
	if actor == nil {
		return nil, common.ErrUnauthenticated
	}
	return s.repomanager.Votes(s.repomanager.DB()).GetByUserAndTopic(ctx, actor.Username, topicID)
}

// Results tallies topicID. Results are available in every stage.
func (s *VoteService) Results(ctx context.Context, topicID string) (*models.TopicResults, error) {
	topic, err := s.repomanager.Topics(s.repomanager.DB()).GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repomanager.Votes(s.repomanager.DB()).CountByTopic(ctx, topic.ID)
	if err != nil {
		return nil, err
	}

	res := models.Tally(topic.Refreshed(s.now()), counts)
	return &res, nil
}
