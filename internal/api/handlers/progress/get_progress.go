package progress

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-sweeper/internal/api"
)

func GetProgressRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Sweep.GET("/progress", getProgressHandler(s))
}

// Returns the parse counts of the last prepared input and the live counters of the running sweep.
func getProgressHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.Sweep.Summary())
	}
}
