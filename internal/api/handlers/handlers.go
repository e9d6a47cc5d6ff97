package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/api/handlers/common"
	"github/chapool/go-sweeper/internal/api/handlers/progress"
)

func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		progress.GetConfigRoute(s),
		progress.GetProgressRoute(s),
	}
}
