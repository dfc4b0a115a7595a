package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP statuses and the message shown to
// clients. Unknown errors are reported as a bare 500.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message)
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "could not validate credentials"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrDuplicatedVote),
		errors.Is(err, common.ErrEditWindowClosed),
		errors.Is(err, common.ErrVotingNotOpen),
		errors.Is(err, common.ErrConstraintViolation):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

func (s *HTTPServer) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := statusFor(err)
	if status == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, common.BearerScheme)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed", "path", c.Request().URL.Path, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Error: msg})
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "write error response", "error", err)
	}
}
