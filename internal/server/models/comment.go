package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
)

type Comment struct {
	ID        string
	UserID    string
	TopicID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: comment content must not be empty", common.ErrValidation)
	}
	return nil
}
