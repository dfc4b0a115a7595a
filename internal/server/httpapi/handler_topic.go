package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) listTopics(c echo.Context) error {
	topics, err := s.svc.Topics.GetAll(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]topicResponse, len(topics))
	for i := range topics {
		resp[i] = newTopicResponse(&topics[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) getTopic(c echo.Context) error {
	t, err := s.svc.Topics.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTopicResponse(t))
}

func (s *HTTPServer) createTopic(c echo.Context) error {
	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	t, err := s.svc.Topics.Create(c.Request().Context(), actorFrom(c), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: t.ID})
}

func (s *HTTPServer) updateTopic(c echo.Context) error {
	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	t, err := s.svc.Topics.Update(c.Request().Context(), actorFrom(c), c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTopicResponse(t))
}

func (s *HTTPServer) voteResult(c echo.Context) error {
	res, err := s.svc.Votes.Results(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := resultsResponse{TopicID: res.TopicID, Stage: res.Stage, Total: res.Total, Options: make([]optionResultResponse, len(res.Options))}
	for i, o := range res.Options {
		resp.Options[i] = optionResultResponse{OptionID: o.OptionID, Label: o.Label, Votes: o.Votes}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) myVote(c echo.Context) error {
	ctx := c.Request().Context()
	topicID := c.Param("id")

	if _, err := s.svc.Topics.GetByID(ctx, topicID); err != nil {
		return err
	}

	v, err := s.svc.Votes.GetMine(ctx, actorFrom(c), topicID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newVoteResponse(v))
}
