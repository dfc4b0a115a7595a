package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) listComments(c echo.Context) error {
	topicID := c.QueryParam("topic_id")
	if topicID == "" {
		return fmt.Errorf("%w: topic_id is required", common.ErrValidation)
	}

	comments, err := s.svc.Comments.ListByTopic(c.Request().Context(), topicID)
	if err != nil {
		return err
	}

	resp := make([]commentResponse, len(comments))
	for i := range comments {
		resp[i] = newCommentResponse(&comments[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) postComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cm, err := s.svc.Comments.Post(c.Request().Context(), actorFrom(c), req.TopicID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: cm.ID})
}

func (s *HTTPServer) patchComment(c echo.Context) error {
	var req patchCommentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cm, err := s.svc.Comments.Patch(c.Request().Context(), actorFrom(c), c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCommentResponse(cm))
}
