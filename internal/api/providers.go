package api

import (
	"github/chapool/go-sweeper/internal/config"
	"github/chapool/go-sweeper/internal/i18n"
	"github/chapool/go-sweeper/internal/metrics"
	"github/chapool/go-sweeper/internal/sweep"
	"github/chapool/go-sweeper/internal/sweep/executor"
	"github/chapool/go-sweeper/internal/sweep/rpc"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirement for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewI18N is used by wire to initialize the i18n service with the configured locale.
func NewI18N(cfg config.Sweep) (*i18n.Service, error) {
	return i18n.New(cfg.Locale)
}

// NewRPCClient creates the failover client for the configured endpoints, reporting every attempt to metrics.
func NewRPCClient(cfg config.Sweep, metricsService *metrics.Service) (*rpc.Client, error) {
	return rpc.NewClient(cfg.Chain.RPCURLs, rpc.Options{
		AttemptTimeout: cfg.Engine.RPCAttemptTimeout,
		Observer:       metricsService,
	})
}

// NewSweepService creates the engine on top of the given chain client.
func NewSweepService(cfg config.Sweep, client executor.ChainClient, metricsService *metrics.Service) *sweep.Service {
	return sweep.NewService(cfg, client, metricsService)
}
