package common

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Health check
// Probes every configured rpc endpoint. Returns 200 if at least one endpoint answers
// with the configured chain id, 521 otherwise. The body lists one line per endpoint.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		if !s.Ready() {
			return c.String(521, "Not ready.")
		}

		var (
			str     strings.Builder
			healthy bool
		)

		want := s.Config.Chain.ChainID()

		for _, status := range s.RPC.Probe(ctx) {
			switch {
			case !status.Healthy():
				log.Warn().Err(status.Err).Str("endpoint", status.Label).Msg("Health check: endpoint unreachable")
				fmt.Fprintf(&str, "%s: unreachable\n", status.Label)
			case status.ChainID.Cmp(want) != 0:
				log.Warn().Str("endpoint", status.Label).Str("chain_id", status.ChainID.String()).Msg("Health check: chain id mismatch")
				fmt.Fprintf(&str, "%s: chain id %s, want %s\n", status.Label, status.ChainID, want)
			default:
				healthy = true
				fmt.Fprintf(&str, "%s: ok (%s)\n", status.Label, status.Latency)
			}
		}

		if !healthy {
			return c.String(521, str.String())
		}

		return c.String(http.StatusOK, str.String())
	}
}
