package test

import (
	"encoding/json"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// FakeChain is an RPCServer that keeps balances and nonces, decodes broadcast
// transactions and serves receipts for them.
type FakeChain struct {
	*RPCServer

	chainID *big.Int

	mu         sync.Mutex
	gasPrice   *big.Int
	balances   map[common.Address]*big.Int
	nonces     map[common.Address]uint64
	rejectFrom map[common.Address]string
	reverted   map[common.Address]bool
	sent       []*types.Transaction
	mined      map[common.Hash]uint64
}

// NewFakeChain starts a fake node for chainID with a gas price of 1 gwei.
func NewFakeChain(t *testing.T, chainID int64) *FakeChain {
	t.Helper()

	c := &FakeChain{
		RPCServer:  NewRPCServer(t),
		chainID:    big.NewInt(chainID),
		gasPrice:   big.NewInt(1_000_000_000),
		balances:   make(map[common.Address]*big.Int),
		nonces:     make(map[common.Address]uint64),
		rejectFrom: make(map[common.Address]string),
		reverted:   make(map[common.Address]bool),
		mined:      make(map[common.Hash]uint64),
	}

	c.Result("eth_chainId", (*hexutil.Big)(c.chainID))
	c.Handle("eth_gasPrice", c.handleGasPrice)
	c.Handle("eth_getBalance", c.handleGetBalance)
	c.Handle("eth_getTransactionCount", c.handleGetTransactionCount)
	c.Handle("eth_sendRawTransaction", c.handleSendRawTransaction)
	c.Handle("eth_getTransactionReceipt", c.handleGetTransactionReceipt)

	return c
}

// SetBalance sets the balance of address in base units.
func (c *FakeChain) SetBalance(address common.Address, wei *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.balances[address] = new(big.Int).Set(wei)
}

// SetGasPrice sets the value returned by eth_gasPrice.
func (c *FakeChain) SetGasPrice(wei *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gasPrice = new(big.Int).Set(wei)
}

// RejectFrom makes the node reject every transaction sent by address with message.
func (c *FakeChain) RejectFrom(address common.Address, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rejectFrom[address] = message
}

// RevertFrom makes transactions sent by address produce a failed receipt.
func (c *FakeChain) RevertFrom(address common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reverted[address] = true
}

// Sent returns the accepted transactions in arrival order.
func (c *FakeChain) Sent() []*types.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*types.Transaction(nil), c.sent...)
}

// Signer returns the signer matching the chain id.
func (c *FakeChain) Signer() types.Signer {
	return types.NewEIP155Signer(c.chainID)
}

func (c *FakeChain) handleGasPrice([]json.RawMessage) (any, *RPCError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return (*hexutil.Big)(c.gasPrice), nil
}

func (c *FakeChain) handleGetBalance(params []json.RawMessage) (any, *RPCError) {
	address, rpcErr := addressParam(params)
	if rpcErr != nil {
		return nil, rpcErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	balance, ok := c.balances[address]
	if !ok {
		balance = new(big.Int)
	}

	return (*hexutil.Big)(balance), nil
}

func (c *FakeChain) handleGetTransactionCount(params []json.RawMessage) (any, *RPCError) {
	address, rpcErr := addressParam(params)
	if rpcErr != nil {
		return nil, rpcErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return hexutil.Uint64(c.nonces[address]), nil
}

func (c *FakeChain) handleSendRawTransaction(params []json.RawMessage) (any, *RPCError) {
	if len(params) != 1 {
		return nil, &RPCError{Code: -32602, Message: "missing raw transaction"}
	}

	var raw hexutil.Bytes
	if err := json.Unmarshal(params[0], &raw); err != nil {
		return nil, &RPCError{Code: -32602, Message: err.Error()}
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, &RPCError{Code: -32602, Message: err.Error()}
	}

	from, err := types.Sender(c.Signer(), tx)
	if err != nil {
		return nil, &RPCError{Code: -32000, Message: "invalid sender"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if msg, ok := c.rejectFrom[from]; ok {
		return nil, &RPCError{Code: -32000, Message: msg}
	}

	if _, ok := c.mined[tx.Hash()]; ok {
		return nil, &RPCError{Code: -32000, Message: "already known"}
	}

	status := uint64(types.ReceiptStatusSuccessful)
	if c.reverted[from] {
		status = types.ReceiptStatusFailed
	}

	c.nonces[from]++
	c.sent = append(c.sent, tx)
	c.mined[tx.Hash()] = status

	return tx.Hash(), nil
}

func (c *FakeChain) handleGetTransactionReceipt(params []json.RawMessage) (any, *RPCError) {
	if len(params) != 1 {
		return nil, &RPCError{Code: -32602, Message: "missing transaction hash"}
	}

	var hash common.Hash
	if err := json.Unmarshal(params[0], &hash); err != nil {
		return nil, &RPCError{Code: -32602, Message: err.Error()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	status, ok := c.mined[hash]
	if !ok {
		return json.RawMessage("null"), nil
	}

	return map[string]any{
		"transactionHash": hash,
		"status":          hexutil.Uint64(status),
		"blockNumber":     (*hexutil.Big)(big.NewInt(1)),
	}, nil
}

func addressParam(params []json.RawMessage) (common.Address, *RPCError) {
	if len(params) == 0 {
		return common.Address{}, &RPCError{Code: -32602, Message: "missing address"}
	}

	var address common.Address
	if err := json.Unmarshal(params[0], &address); err != nil {
		return common.Address{}, &RPCError{Code: -32602, Message: err.Error()}
	}

	return address, nil
}

// SetReceipt makes the node serve a receipt with status for txHash.
func (c *FakeChain) SetReceipt(txHash common.Hash, status uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mined[txHash] = status
}

// FailBalanceFor makes eth_getBalance answer with an error object for address.
func (c *FakeChain) FailBalanceFor(address common.Address) {
	c.Handle("eth_getBalance", func(params []json.RawMessage) (any, *RPCError) {
		requested, rpcErr := addressParam(params)
		if rpcErr != nil {
			return nil, rpcErr
		}

		if requested == address {
			return nil, &RPCError{Code: -32000, Message: "header not found"}
		}

		return c.handleGetBalance(params)
	})
}
