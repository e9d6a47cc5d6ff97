package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github/chapool/go-sweeper/internal/config"
	"github/chapool/go-sweeper/internal/i18n"
	"github/chapool/go-sweeper/internal/metrics"
	"github/chapool/go-sweeper/internal/sweep"
	"github/chapool/go-sweeper/internal/sweep/rpc"
)

type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
	APIV1Sweep *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config  config.Sweep
	I18n    *i18n.Service
	Metrics *metrics.Service
	RPC     *rpc.Client
	Sweep   *sweep.Service
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Sweep,
	i18n *i18n.Service,
	metrics *metrics.Service,
	rpcClient *rpc.Client,
	sweepService *sweep.Service,
) *Server {
	return &Server{
		Config:  cfg,
		I18n:    i18n,
		Metrics: metrics,
		RPC:     rpcClient,
		Sweep:   sweepService,
	}
}

func (s *Server) Ready() bool {
	switch {
	case s.I18n == nil, s.Metrics == nil, s.RPC == nil, s.Sweep == nil:
		log.Debug().Msg("Server is not fully initialized")
		return false
	case len(s.Config.Chain.RPCURLs) == 0:
		log.Debug().Msg("Server has no rpc endpoints configured")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if s.Echo == nil {
		return errors.New("router is not initialized")
	}

	if err := s.Echo.Start(s.Config.Server.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Debug().Msg("Shutting down server")

	var errs []error

	if s.RPC != nil {
		log.Debug().Msg("Closing rpc connections")
		s.RPC.Close()
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	return errs
}
