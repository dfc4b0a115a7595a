package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// authenticate resolves the bearer token into an actor stored on the
// context. It is the only place tokens are verified.
func (s *HTTPServer) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(common.AuthorizationHeader))
		if !ok {
			return fmt.Errorf("%w: missing bearer token", common.ErrUnauthenticated)
		}

		actor, err := s.svc.Bridge.ResolveActor(c.Request().Context(), token)
		if err != nil {
			return err
		}

		c.Set(actorKey, actor)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func actorFrom(c echo.Context) *models.User {
	actor, _ := c.Get(actorKey).(*models.User)
	return actor
}

func (s *HTTPServer) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			// write the error response now so the logged status is final
			c.Error(err)
		}

		req := c.Request()
		s.logger.Info(req.Context(), "request completed",
			"method", req.Method,
			"path", req.URL.Path,
			"route", c.Path(),
			"status", c.Response().Status,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}
