package progress

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/config"
)

type configResponse struct {
	Chain     config.Chain  `json:"chain"`
	Engine    config.Engine `json:"engine"`
	Locale    string        `json:"locale"`
	Endpoints []string      `json:"endpoints"`
}

func GetConfigRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Sweep.GET("/config", getConfigHandler(s))
}

// Returns the active configuration. RPC urls are reduced to their host since they may carry API keys.
func getConfigHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		chain := s.Config.Chain
		chain.RPCURLs = nil

		return c.JSON(http.StatusOK, configResponse{
			Chain:     chain,
			Engine:    s.Config.Engine,
			Locale:    s.I18n.Tag().String(),
			Endpoints: s.RPC.Labels(),
		})
	}
}
