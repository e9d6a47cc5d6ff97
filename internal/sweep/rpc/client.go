package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-sweeper/internal/sweep/model"
)

// DefaultAttemptTimeout bounds a single request to a single endpoint.
const DefaultAttemptTimeout = 10 * time.Second

// Observer receives the outcome of every endpoint attempt.
type Observer interface {
	ObserveRPCCall(method, endpoint string, err error, duration time.Duration)
}

// Options configures a Client.
type Options struct {
	AttemptTimeout time.Duration
	HTTPClient     *http.Client
	Observer       Observer
}

// Client sends JSON-RPC calls to an ordered list of endpoints. Every logical call
// walks the list from the first endpoint and tries each one at most once.
// The order is never adapted between calls.
type Client struct {
	endpoints      []*endpoint
	attemptTimeout time.Duration
	observer       Observer
}

type endpoint struct {
	url        string
	label      string
	httpClient *http.Client

	mu     sync.Mutex
	client *gethrpc.Client
}

// NewClient creates a client for urls. Connections are established lazily, a
// failing dial is reported as a failed attempt of the call that triggered it.
func NewClient(urls []string, opts Options) (*Client, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	endpoints := make([]*endpoint, 0, len(urls))
	for i, u := range urls {
		endpoints = append(endpoints, &endpoint{
			url:        u,
			label:      endpointLabel(u, i),
			httpClient: opts.HTTPClient,
		})
	}

	return &Client{
		endpoints:      endpoints,
		attemptTimeout: opts.AttemptTimeout,
		observer:       opts.Observer,
	}, nil
}

// Endpoints returns the configured URLs in order.
func (c *Client) Endpoints() []string {
	urls := make([]string, 0, len(c.endpoints))
	for _, ep := range c.endpoints {
		urls = append(urls, ep.url)
	}

	return urls
}

// Labels returns the log safe endpoint labels in order.
func (c *Client) Labels() []string {
	labels := make([]string, 0, len(c.endpoints))
	for _, ep := range c.endpoints {
		labels = append(labels, ep.label)
	}

	return labels
}

// Close closes all open connections.
func (c *Client) Close() {
	for _, ep := range c.endpoints {
		ep.mu.Lock()
		if ep.client != nil {
			ep.client.Close()
			ep.client = nil
		}
		ep.mu.Unlock()
	}
}

// GetBalance returns the latest balance of address in base units.
func (c *Client) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance hexutil.Big
	if err := c.call(ctx, "eth_getBalance", decodeInto(&balance), address, "latest"); err != nil {
		return nil, err
	}

	return balance.ToInt(), nil
}

// GetGasPrice returns the node's legacy gas price estimate.
func (c *Client) GetGasPrice(ctx context.Context) (*big.Int, error) {
	var price hexutil.Big
	if err := c.call(ctx, "eth_gasPrice", decodeInto(&price)); err != nil {
		return nil, err
	}

	return price.ToInt(), nil
}

// GetPendingNonce returns the next nonce of address including pending transactions.
func (c *Client) GetPendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	var nonce hexutil.Uint64
	if err := c.call(ctx, "eth_getTransactionCount", decodeInto(&nonce), address, "pending"); err != nil {
		return 0, err
	}

	return uint64(nonce), nil
}

// ChainID returns the chain id reported by the endpoints.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.call(ctx, "eth_chainId", decodeInto(&id)); err != nil {
		return nil, err
	}

	return id.ToInt(), nil
}

// SendRawTransaction broadcasts an RLP encoded signed transaction.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, "eth_sendRawTransaction", decodeInto(&hash), hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

// GetTransactionReceipt returns the receipt of txHash, or nil when no endpoint knows it yet.
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*model.Receipt, error) {
	var receipt struct {
		TransactionHash common.Hash    `json:"transactionHash"`
		Status          hexutil.Uint64 `json:"status"`
		BlockNumber     *hexutil.Big   `json:"blockNumber"`
	}

	err := c.call(ctx, "eth_getTransactionReceipt", decodeInto(&receipt), txHash)
	if err != nil {
		if errors.Is(err, ErrNullResult) && errors.Is(err, model.ErrRPCExhausted) {
			return nil, nil //nolint:nilnil // not mined yet
		}

		return nil, err
	}

	res := &model.Receipt{TxHash: receipt.TransactionHash, Status: uint64(receipt.Status)}
	if receipt.BlockNumber != nil {
		res.BlockNumber = receipt.BlockNumber.ToInt()
	}

	return res, nil
}

func (c *Client) call(ctx context.Context, method string, decode func(json.RawMessage) error, args ...any) error {
	var lastErr error

	attemptErrs := make([]error, 0, len(c.endpoints))

	for _, ep := range c.endpoints {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "%s canceled", method)
		}

		started := time.Now()
		err := c.attempt(ctx, ep, method, decode, args...)

		if c.observer != nil {
			c.observer.ObserveRPCCall(method, ep.label, err, time.Since(started))
		}

		if err == nil {
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrapf(ctxErr, "%s canceled", method)
		}

		log.Debug().
			Err(err).
			Str("method", method).
			Str("endpoint", ep.label).
			Msg("RPCClient: attempt failed, trying next endpoint")

		lastErr = errors.Wrapf(err, "endpoint %s", ep.label)
		attemptErrs = append(attemptErrs, lastErr)
	}

	return &ExhaustedError{Method: method, Attempts: len(c.endpoints), Last: lastErr, Errors: attemptErrs}
}

func (c *Client) attempt(ctx context.Context, ep *endpoint, method string, decode func(json.RawMessage) error, args ...any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	client, err := ep.dial(attemptCtx)
	if err != nil {
		return err
	}

	var raw json.RawMessage
	if err := client.CallContext(attemptCtx, &raw, method, args...); err != nil {
		return err
	}

	if len(raw) == 0 || string(raw) == "null" {
		return ErrNullResult
	}

	if err := decode(raw); err != nil {
		return errors.Wrap(err, "malformed result")
	}

	return nil
}

func (ep *endpoint) dial(ctx context.Context) (*gethrpc.Client, error) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if ep.client != nil {
		return ep.client, nil
	}

	client, err := gethrpc.DialOptions(ctx, ep.url, gethrpc.WithHTTPClient(ep.httpClient))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RPC node")
	}

	ep.client = client

	return client, nil
}

func decodeInto(v any) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		return json.Unmarshal(raw, v)
	}
}

// endpointLabel strips path and query so that API keys embedded in URLs do not reach logs or metrics.
func endpointLabel(raw string, index int) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Sprintf("endpoint-%d", index)
	}

	return u.Host
}
