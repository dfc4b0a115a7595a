package httpapi

import "github.com/labstack/echo/v4/middleware"

func (s *HTTPServer) registerRoutes() {
	e := s.echo

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(s.logRequests)

	auth := s.authenticate

	hz := e.Group("/healthz")
	hz.GET("", s.liveness)
	hz.GET("/liveness", s.liveness)
	hz.GET("/readiness", s.readiness)

	e.POST("/auth/token", s.login)

	u := e.Group("/user")
	u.POST("/signup", s.signup)
	u.GET("/:username", s.getUser)
	u.PUT("/:username/roles", s.setRoles, auth)
	u.PUT("/:username/disabled", s.setDisabled, auth)

	t := e.Group("/topic")
	t.GET("", s.listTopics)
	t.POST("", s.createTopic, auth)
	t.GET("/:id", s.getTopic)
	t.PATCH("/:id", s.updateTopic, auth)
	t.GET("/:id/vote-result", s.voteResult)
	t.GET("/:id/my-vote", s.myVote, auth)

	v := e.Group("/vote", auth)
	v.GET("", s.listVotes)
	v.POST("", s.addVote)

	c := e.Group("/comment")
	c.GET("", s.listComments)
	c.POST("", s.postComment, auth)
	c.PATCH("/:id", s.patchComment, auth)
}
