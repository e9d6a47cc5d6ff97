//go:build wireinject

package api

import (
	"github.com/google/wire"
	"github/chapool/go-sweeper/internal/config"
	"github/chapool/go-sweeper/internal/metrics"
	"github/chapool/go-sweeper/internal/sweep/executor"
	"github/chapool/go-sweeper/internal/sweep/rpc"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewI18N,
	metrics.New,
	NewRPCClient,
	NewSweepService,
)

var chainClientSet = wire.NewSet(
	wire.Bind(new(executor.ChainClient), new(*rpc.Client)),
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Sweep,
) (*Server, error) {
	wire.Build(serviceSet, chainClientSet)
	return new(Server), nil
}

// InitNewServerWithClient returns a new Server instance whose sweep engine uses the given chain client.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithClient(
	_ config.Sweep,
	_ executor.ChainClient,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
