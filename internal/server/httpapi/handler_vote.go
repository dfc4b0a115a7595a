package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/dmitrijs2005/gophvote/internal/server/session"
	"github.com/labstack/echo/v4"
)

// listVotes serves GET /vote?user=. Users may list their own votes; the
// full ledger and other users' votes need the admin role.
func (s *HTTPServer) listVotes(c echo.Context) error {
	ctx := c.Request().Context()
	actor := actorFrom(c)
	username := c.QueryParam("user")

	var (
		votes []models.Vote
		err   error
	)
	if username == "" {
		if err := session.RequireRole(actor, common.RoleAdmin); err != nil {
			return err
		}
		votes, err = s.svc.Votes.GetAll(ctx)
	} else {
		if err := session.AuthorizeSelfOrRole(actor, username, common.RoleAdmin); err != nil {
			return err
		}
		votes, err = s.svc.Votes.GetForUser(ctx, username)
	}
	if err != nil {
		return err
	}

	resp := make([]voteResponse, len(votes))
	for i := range votes {
		resp[i] = newVoteResponse(&votes[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) addVote(c echo.Context) error {
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	v, err := s.svc.Votes.Add(c.Request().Context(), actorFrom(c), req.TopicID, req.OptionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: v.ID})
}
