package httpapi

import (
	"time"

	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse never carries the password digest. Email is only filled in
// for the user's own signup.
type userResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	Roles       []string   `json:"roles"`
	Disabled    bool       `json:"disabled"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func newUserResponse(u *models.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Roles:       roles,
		Disabled:    u.Disabled,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

type rolesRequest struct {
	Roles []string `json:"roles"`
}

type disabledRequest struct {
	Disabled bool `json:"disabled"`
}

type optionRequest struct {
	ID          string `json:"id,omitempty"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type topicRequest struct {
	Description string          `json:"description"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      time.Time       `json:"ends_at"`
	Options     []optionRequest `json:"options"`
}

func (r topicRequest) input() models.TopicInput {
	in := models.TopicInput{
		Description: r.Description,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Options:     make([]models.OptionInput, len(r.Options)),
	}
	for i, o := range r.Options {
		in.Options[i] = models.OptionInput{ID: o.ID, Label: o.Label, Description: o.Description}
	}
	return in
}

type topicResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      time.Time       `json:"ends_at"`
	Options     []models.Option `json:"options"`
	Stage       models.Stage    `json:"stage"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newTopicResponse(t *models.Topic) topicResponse {
	return topicResponse{
		ID:          t.ID,
		Description: t.Description,
		StartsAt:    t.StartsAt,
		EndsAt:      t.EndsAt,
		Options:     t.Options,
		Stage:       t.Stage,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type idResponse struct {
	ID string `json:"id"`
}

type voteRequest struct {
	TopicID  string `json:"topic_id"`
	OptionID string `json:"option_id"`
}

type voteResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	TopicID   string    `json:"topic_id"`
	OptionID  string    `json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newVoteResponse(v *models.Vote) voteResponse {
	return voteResponse{ID: v.ID, Username: v.Username, TopicID: v.TopicID, OptionID: v.OptionID, CreatedAt: v.CreatedAt}
}

type optionResultResponse struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Votes    int    `json:"votes"`
}

type resultsResponse struct {
	TopicID string                 `json:"topic_id"`
	Stage   models.Stage           `json:"stage"`
	Total   int                    `json:"total"`
	Options []optionResultResponse `json:"options"`
}

type commentRequest struct {
	TopicID string `json:"topic_id"`
	Content string `json:"content"`
}

type patchCommentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TopicID   string    `json:"topic_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{ID: c.ID, UserID: c.UserID, TopicID: c.TopicID, Content: c.Content, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}
