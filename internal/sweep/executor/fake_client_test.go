package executor_test

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/sweep/rpc"
)

var testChainID = big.NewInt(77777)

// rejection mimics a JSON-RPC error object returned by a node.
type rejection struct{ msg string }

func (r *rejection) Error() string  { return r.msg }
func (r *rejection) ErrorCode() int { return -32000 }

func transportFailure() error {
	return &rpc.ExhaustedError{Method: "eth_sendRawTransaction", Attempts: 2, Last: errors.New("connection refused")}
}

type fakeClient struct {
	mu sync.Mutex

	gasPrice     *big.Int
	balances     map[common.Address]*big.Int
	balanceDelay map[common.Address]time.Duration
	balanceErrs  map[common.Address][]error
	sendErrs     map[common.Address][]error
	receipts     map[common.Hash]uint64
	revertFrom   map[common.Address]bool

	balanceCalls map[common.Address]int
	sendCalls    map[common.Address]int
	sent         []*types.Transaction
	starts       []time.Time

	inFlight    int
	maxInFlight int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		gasPrice:     big.NewInt(1_000_000_000),
		balances:     make(map[common.Address]*big.Int),
		balanceDelay: make(map[common.Address]time.Duration),
		balanceErrs:  make(map[common.Address][]error),
		sendErrs:     make(map[common.Address][]error),
		receipts:     make(map[common.Hash]uint64),
		revertFrom:   make(map[common.Address]bool),
		balanceCalls: make(map[common.Address]int),
		sendCalls:    make(map[common.Address]int),
	}
}

func (f *fakeClient) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	f.mu.Lock()
	f.balanceCalls[address]++
	if f.balanceCalls[address] == 1 {
		f.starts = append(f.starts, time.Now())
	}
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	delay := f.balanceDelay[address]
	var err error
	if errs := f.balanceErrs[address]; len(errs) > 0 {
		err = errs[0]
		if len(errs) > 1 {
			f.balanceErrs[address] = errs[1:]
		}
	}
	balance := f.balances[address]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	if balance == nil {
		return new(big.Int), nil
	}

	return new(big.Int).Set(balance), nil
}

func (f *fakeClient) GetGasPrice(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return new(big.Int).Set(f.gasPrice), nil
}

func (f *fakeClient) GetPendingNonce(context.Context, common.Address) (uint64, error) {
	return 0, nil
}

func (f *fakeClient) SendRawTransaction(_ context.Context, raw []byte) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, &rejection{msg: err.Error()}
	}

	from, err := types.Sender(types.NewEIP155Signer(testChainID), tx)
	if err != nil {
		return common.Hash{}, &rejection{msg: "invalid sender"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.sendCalls[from]++

	if errs := f.sendErrs[from]; len(errs) > 0 {
		f.sendErrs[from] = errs[1:]
		if errs[0] != nil {
			return common.Hash{}, errs[0]
		}
	}

	f.sent = append(f.sent, tx)

	f.receipts[tx.Hash()] = model.ReceiptStatusSuccessful
	if f.revertFrom[from] {
		f.receipts[tx.Hash()] = 0
	}

	return tx.Hash(), nil
}

func (f *fakeClient) GetTransactionReceipt(_ context.Context, txHash common.Hash) (*model.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	status, ok := f.receipts[txHash]
	if !ok {
		return nil, nil //nolint:nilnil // not mined
	}

	return &model.Receipt{TxHash: txHash, Status: status, BlockNumber: big.NewInt(1)}, nil
}

func (f *fakeClient) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

func (f *fakeClient) sendCallsOf(address common.Address) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sendCalls[address]
}

func (f *fakeClient) balanceCallsOf(address common.Address) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.balanceCalls[address]
}

func testKey(n int) string {
	return fmt.Sprintf("0x%064x", n)
}
