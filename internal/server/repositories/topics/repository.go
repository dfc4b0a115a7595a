package topics

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

// Repository stores topics with their embedded options.
type Repository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id string) (*models.Topic, error)
	// GetAll lists topics newest first.
	GetAll(ctx context.Context) ([]models.Topic, error)
	// UpdateBeforeStart persists topic only while its stored window has not
	// opened at now; otherwise it returns common.ErrEditWindowClosed.
	UpdateBeforeStart(ctx context.Context, topic *models.Topic, now time.Time) error
}
