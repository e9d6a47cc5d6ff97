package rpc

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EndpointStatus is the result of probing a single endpoint.
type EndpointStatus struct {
	URL      string
	Label    string
	ChainID  *big.Int
	GasPrice *big.Int
	Latency  time.Duration
	Err      error
}

// Healthy reports whether the endpoint answered both probe calls.
func (s EndpointStatus) Healthy() bool {
	return s.Err == nil
}

// Probe queries eth_chainId and eth_gasPrice on every endpoint individually,
// without failover, in configured order.
func (c *Client) Probe(ctx context.Context) []EndpointStatus {
	statuses := make([]EndpointStatus, 0, len(c.endpoints))

	for _, ep := range c.endpoints {
		status := EndpointStatus{URL: ep.url, Label: ep.label}
		started := time.Now()

		var chainID, gasPrice hexutil.Big

		err := c.attempt(ctx, ep, "eth_chainId", decodeInto(&chainID))
		if err == nil {
			err = c.attempt(ctx, ep, "eth_gasPrice", decodeInto(&gasPrice))
		}

		status.Latency = time.Since(started)
		status.Err = err

		if err == nil {
			status.ChainID = chainID.ToInt()
			status.GasPrice = gasPrice.ToInt()
		}

		statuses = append(statuses, status)
	}

	return statuses
}
