package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/api/handlers"
	"github/chapool/go-sweeper/internal/api/middleware"
)

// Init creates the echo instance, the route groups and attaches all handlers to the server.
func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = false
	s.Echo.HideBanner = true
	s.Echo.HidePort = true

	s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	s.Echo.Use(echoMiddleware.Recover())
	s.Echo.Use(echoMiddleware.RequestID())
	s.Echo.Use(middleware.Logger())

	s.Router = &api.Router{
		Routes:     nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		APIV1Sweep: s.Echo.Group("/api/v1/sweep"),
	}

	handlers.AttachAllRoutes(s)
}
