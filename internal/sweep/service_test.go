package sweep_test

import (
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-sweeper/internal/config"
	"github/chapool/go-sweeper/internal/sweep"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/keys"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/sweep/rpc"
	"github/chapool/go-sweeper/internal/test"
)

const chainID = 77777

var (
	keyA   = "0x" + strings.Repeat("a", 64)
	keyB   = "0x" + strings.Repeat("b", 64)
	target = "0x" + strings.Repeat("c", 40)
)

func testConfig(urls ...string) config.Sweep {
	cfg := config.Default()
	cfg.Chain.ID = chainID
	cfg.Chain.RPCURLs = urls
	cfg.Engine.MinSpacing = 0
	cfg.Engine.RetryBackoff = time.Millisecond
	cfg.Engine.RPCAttemptTimeout = time.Second

	return cfg
}

func newService(t *testing.T, cfg config.Sweep) *sweep.Service {
	t.Helper()

	client, err := rpc.NewClient(cfg.Chain.RPCURLs, rpc.Options{AttemptTimeout: cfg.Engine.RPCAttemptTimeout})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return sweep.NewService(cfg, client, nil)
}

func mustAddress(t *testing.T, key string) common.Address {
	t.Helper()

	addr, err := keys.DeriveAddress(key)
	require.NoError(t, err)

	return addr
}

func TestThreeLineSweep(t *testing.T) {
	node := test.NewFakeChain(t, chainID)

	addrA := mustAddress(t, keyA)
	addrB := mustAddress(t, keyB)

	oneCoin := big.NewInt(1_000_000_000_000_000_000)
	node.SetBalance(addrA, oneCoin)
	node.SetBalance(addrB, oneCoin)

	svc := newService(t, testConfig(node.URL))

	prepared, err := svc.Prepare(sweep.Request{
		KeysText:       keyA + " 0.1\n" + keyB + "\nnot-a-key",
		CollectionMode: model.ManyToOne,
		Target:         target,
		AmountMode:     model.AmountAll,
	})
	require.NoError(t, err)

	require.Len(t, prepared.Accounts, 3)
	assert.True(t, prepared.Accounts[0].Valid)
	assert.True(t, prepared.Accounts[1].Valid)
	assert.False(t, prepared.Accounts[2].Valid)
	assert.Equal(t, model.KindMalformedKey, prepared.Accounts[2].ErrorKind)
	require.Len(t, prepared.Invalid(), 1)

	require.Len(t, prepared.Plan, 2)
	assert.Equal(t, model.PolicyPerLineExplicit, prepared.Plan[0].Policy.Kind)
	assert.Equal(t, model.PolicyAllMinusFee, prepared.Plan[1].Policy.Kind)

	report, err := svc.Execute(t.Context(), prepared)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.NotEmpty(t, report.RunID)

	first, second := report.Results[0], report.Results[1]

	assert.Equal(t, model.StatusSuccess, first.Status)
	assert.Equal(t, addrA.Hex(), first.SourceAddress)
	assert.Equal(t, common.HexToAddress(target).Hex(), first.TargetAddress)
	assert.Equal(t, "0.1", first.Amount)

	fee := amount.Fee(big.NewInt(1_000_000_000), amount.DefaultGasLimit)
	assert.Equal(t, model.StatusSuccess, second.Status)
	assert.Equal(t, amount.FormatDecimal(new(big.Int).Sub(oneCoin, fee)), second.Amount)

	sent := node.Sent()
	require.Len(t, sent, 2)

	values := map[common.Address]string{}
	for _, tx := range sent {
		from, err := node.Signer().Sender(tx)
		require.NoError(t, err)
		values[from] = tx.Value().String()
		assert.Equal(t, common.HexToAddress(target), *tx.To())
		assert.Equal(t, uint64(21000), tx.Gas())
	}

	assert.Equal(t, "100000000000000000", values[addrA])
	assert.Equal(t, new(big.Int).Sub(oneCoin, fee).String(), values[addrB])

	summary := svc.Summary()
	assert.Equal(t, 3, summary.Parsed)
	assert.Equal(t, 2, summary.Valid)
	assert.Equal(t, 1, summary.Invalid)
	assert.Equal(t, 2, summary.Planned)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Remaining)
}

func TestSweepFailoverAndIsolation(t *testing.T) {
	down := test.NewRPCServer(t)
	down.SetDown(true)

	node := test.NewFakeChain(t, chainID)

	keyC := fmt.Sprintf("0x%064x", 3)
	addrA, addrB, addrC := mustAddress(t, keyA), mustAddress(t, keyB), mustAddress(t, keyC)

	node.SetBalance(addrA, big.NewInt(1_000_000_000_000_000_000))
	node.SetBalance(addrB, big.NewInt(1_000))
	node.SetBalance(addrC, big.NewInt(1_000_000_000_000_000_000))
	node.RejectFrom(addrC, "nonce too low")

	svc := newService(t, testConfig(down.URL, node.URL))

	targets := fmt.Sprintf("0x%040x\n0x%040x\n", 0xd1, 0xd2)
	report, err := svc.Run(t.Context(), sweep.Request{
		KeysText:       strings.Join([]string{keyA, keyB, keyC}, "\n"),
		CollectionMode: model.ManyToMany,
		TargetsText:    targets,
		AmountMode:     model.AmountAll,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	assert.Equal(t, model.StatusSuccess, report.Results[0].Status)
	assert.Equal(t, common.HexToAddress(fmt.Sprintf("0x%040x", 0xd1)).Hex(), report.Results[0].TargetAddress)

	assert.Equal(t, model.StatusFailed, report.Results[1].Status)
	assert.Equal(t, "insufficient balance", report.Results[1].ErrorMessage)
	assert.Equal(t, common.HexToAddress(fmt.Sprintf("0x%040x", 0xd2)).Hex(), report.Results[1].TargetAddress)

	assert.Equal(t, model.StatusFailed, report.Results[2].Status)
	assert.Equal(t, model.KindSendFailure, report.Results[2].ErrorKind)
	assert.Equal(t, common.HexToAddress(fmt.Sprintf("0x%040x", 0xd1)).Hex(), report.Results[2].TargetAddress)

	assert.Len(t, node.Sent(), 1)
	assert.Positive(t, down.TotalCalls())
}

func TestSweepRepeatedKeySendsOnce(t *testing.T) {
	node := test.NewFakeChain(t, chainID)

	addrA := mustAddress(t, keyA)
	node.SetBalance(addrA, big.NewInt(1_000_000_000_000_000_000))

	cfg := testConfig(node.URL)
	cfg.Engine.Workers = 4
	svc := newService(t, cfg)

	prepared, err := svc.Prepare(sweep.Request{
		KeysText:       strings.Join([]string{keyA, keyA, strings.TrimPrefix(keyA, "0x"), keyA}, "\n"),
		CollectionMode: model.ManyToOne,
		Target:         target,
		AmountMode:     model.AmountAll,
	})
	require.NoError(t, err)

	require.Len(t, prepared.Accounts, 4)
	require.Len(t, prepared.Valid, 1)
	require.Len(t, prepared.Invalid(), 3)

	for _, acc := range prepared.Invalid() {
		assert.Equal(t, model.KindDuplicateKey, acc.ErrorKind)
	}

	report, err := svc.Execute(t.Context(), prepared)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, model.StatusSuccess, report.Results[0].Status)
	assert.Len(t, node.Sent(), 1)

	summary := svc.Summary()
	assert.Equal(t, 4, summary.Parsed)
	assert.Equal(t, 1, summary.Valid)
	assert.Equal(t, 1, summary.Succeeded)
}

func TestSweepBalanceExhausted(t *testing.T) {
	node := test.NewFakeChain(t, chainID)

	addrA, addrB := mustAddress(t, keyA), mustAddress(t, keyB)
	node.SetBalance(addrA, big.NewInt(1_000_000_000_000_000_000))
	node.FailBalanceFor(addrB)

	svc := newService(t, testConfig(node.URL))

	report, err := svc.Run(t.Context(), sweep.Request{
		KeysText:       keyA + "\n" + keyB,
		CollectionMode: model.ManyToOne,
		Target:         target,
		AmountMode:     model.AmountAll,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	assert.Equal(t, model.StatusSuccess, report.Results[0].Status)
	assert.Equal(t, model.StatusFailed, report.Results[1].Status)
	assert.Equal(t, model.KindRPCExhausted, report.Results[1].ErrorKind)
	assert.Equal(t, model.NotAvailable, report.Results[1].TxHash)
}

func TestPreparePlanErrors(t *testing.T) {
	svc := newService(t, testConfig("http://127.0.0.1:1"))

	tests := []struct {
		name string
		req  sweep.Request
		kind model.ErrorKind
	}{
		{
			name: "no valid accounts",
			req:  sweep.Request{KeysText: "nope\n", CollectionMode: model.ManyToOne, Target: target, AmountMode: model.AmountAll},
			kind: model.KindNoValidAccounts,
		},
		{
			name: "invalid single target",
			req:  sweep.Request{KeysText: keyA, CollectionMode: model.ManyToOne, Target: "0x1234", AmountMode: model.AmountAll},
			kind: model.KindInvalidTargetAddress,
		},
		{
			name: "empty target list",
			req:  sweep.Request{KeysText: keyA, CollectionMode: model.ManyToMany, TargetsText: "\n\n", AmountMode: model.AmountAll},
			kind: model.KindEmptyTargetSet,
		},
		{
			name: "bad fixed amount",
			req:  sweep.Request{KeysText: keyA, CollectionMode: model.ManyToOne, Target: target, AmountMode: model.AmountFixed, FixedAmount: "-1"},
			kind: model.KindMalformedAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Prepare(tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, model.KindOf(err))
		})
	}
}

func TestParseKeys(t *testing.T) {
	svc := newService(t, testConfig("http://127.0.0.1:1"))

	accounts := svc.ParseKeys(keyA + ",0.5\n\n" + keyB + "=abc\n")
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Valid)
	assert.Equal(t, "0.5", accounts[0].ExplicitAmount)
	assert.False(t, accounts[1].Valid)
	assert.Equal(t, model.KindMalformedAmount, accounts[1].ErrorKind)
}
