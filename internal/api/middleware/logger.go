package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/go-sweeper/internal/util"
)

// Logger attaches a request scoped logger to the request context and logs every finished request.
func Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			l := log.With().
				Str("id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			c.SetRequest(req.WithContext(util.WithLogger(req.Context(), l)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			level := zerolog.DebugLevel
			if res.Status >= 500 {
				level = zerolog.WarnLevel
			}

			l.WithLevel(level).
				Int("status", res.Status).
				Dur("duration", time.Since(start)).
				Msg("Request handled")

			return nil
		}
	}
}
