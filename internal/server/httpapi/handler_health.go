package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (s *HTTPServer) liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// readiness reports whether the storage backend answers a ping.
func (s *HTTPServer) readiness(c echo.Context) error {
	if s.svc.Storage == nil {
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	if err := s.svc.Storage.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
