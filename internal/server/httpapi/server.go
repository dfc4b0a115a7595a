// Package httpapi exposes the voting services over HTTP using echo.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/logging"
	"github.com/dmitrijs2005/gophvote/internal/server/services"
	"github.com/dmitrijs2005/gophvote/internal/server/session"
	"github.com/labstack/echo/v4"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	readinessTimeout  = 2 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles what the handlers call into.
type Services struct {
	Users    *services.UserService
	Topics   *services.TopicService
	Votes    *services.VoteService
	Comments *services.CommentService
	Bridge   *session.Bridge
	Storage  Pinger
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	svc     Services
	echo    *echo.Echo
}

func NewHTTPServer(address string, l logging.Logger, svc Services) *HTTPServer {
	s := &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		svc:     svc,
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError
	s.registerRoutes()

	return s
}

// Handler returns the routed echo instance.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.echo, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
