package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) login(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	token, err := s.svc.Users.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	s.logger.Info(c.Request().Context(), "Logged in", "username", req.Username)
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *HTTPServer) signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	u, err := s.svc.Users.Signup(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	s.logger.Info(c.Request().Context(), "Registered", "username", u.Username)
	resp := newUserResponse(u)
	resp.Email = u.Email
	return c.JSON(http.StatusCreated, resp)
}

func (s *HTTPServer) getUser(c echo.Context) error {
	u, err := s.svc.Users.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(u))
}

func (s *HTTPServer) setRoles(c echo.Context) error {
	var req rolesRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := s.svc.Users.SetRoles(c.Request().Context(), actorFrom(c), c.Param("username"), req.Roles); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) setDisabled(c echo.Context) error {
	var req disabledRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := s.svc.Users.SetDisabled(c.Request().Context(), actorFrom(c), c.Param("username"), req.Disabled); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
