// Package executor dispatches the signed transfers of a sweep plan through a
// bounded worker pool and collects one result per plan item in plan order.
package executor

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/util"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ChainClient is the part of the RPC client used by the executor.
type ChainClient interface {
	GetBalance(ctx context.Context, address common.Address) (*big.Int, error)
	GetGasPrice(ctx context.Context) (*big.Int, error)
	GetPendingNonce(ctx context.Context, address common.Address) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*model.Receipt, error)
}

// Observer is notified when a plan item starts and when it reaches a final state.
// Items that fail before starting, e.g. after cancellation, are reported through
// ItemSkipped only.
type Observer interface {
	ItemStarted()
	ItemFinished(res model.TransactionResult, duration time.Duration)
	ItemSkipped(res model.TransactionResult)
}

// Executor runs sweep plans. It holds no per-run state besides its progress counters.
type Executor struct {
	client   ChainClient
	opts     Options
	observer Observer
	progress *Progress
}

// New creates an executor. observer may be nil.
func New(client ChainClient, opts Options, observer Observer) *Executor {
	return &Executor{
		client:   client,
		opts:     opts.withDefaults(),
		observer: observer,
		progress: &Progress{},
	}
}

// Options returns the effective options after defaults were applied.
func (e *Executor) Options() Options {
	return e.opts
}

// Progress returns the live counters of the current or last run.
func (e *Executor) Progress() *Progress {
	return e.progress
}

// Run executes every plan item and returns exactly one result per item, in
// plan order. Items are independent, a failing item never stops the batch.
// Once ctx is canceled no further item starts; those items are reported as
// failed with model.ErrCanceled.
func (e *Executor) Run(ctx context.Context, accounts []model.Account, items []model.PlanItem) []model.TransactionResult {
	log := util.LogFromContext(ctx)
	results := make([]model.TransactionResult, len(items))

	e.progress.begin(len(items))

	limiter := rate.NewLimiter(rate.Inf, 1)
	if e.opts.MinSpacing > 0 {
		limiter = rate.NewLimiter(rate.Every(e.opts.MinSpacing), 1)
	}

	log.Info().
		Int("items", len(items)).
		Int("workers", e.opts.Workers).
		Dur("min_spacing", e.opts.MinSpacing).
		Msg("SweepExecutor: starting run")

	var group errgroup.Group
	group.SetLimit(e.opts.Workers)

	for i, item := range items {
		group.Go(func() error {
			results[i] = e.runItem(ctx, limiter, accounts, item)
			return nil
		})
	}

	_ = group.Wait()

	summary := e.progress.Snapshot()
	log.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("SweepExecutor: run finished")

	return results
}

func (e *Executor) runItem(ctx context.Context, limiter *rate.Limiter, accounts []model.Account, item model.PlanItem) model.TransactionResult {
	res := pendingResult(item, accounts)

	if item.SourceIndex < 0 || item.SourceIndex >= len(accounts) {
		res.ErrorKind = model.KindKeyDerivationFailure
		res.ErrorMessage = "plan item references an unknown account"

		return e.skip(res)
	}

	if ctx.Err() != nil || limiter.Wait(ctx) != nil {
		res.ErrorKind = model.KindCanceled
		res.ErrorMessage = model.ErrCanceled.Error()

		return e.skip(res)
	}

	e.progress.started()
	if e.observer != nil {
		e.observer.ItemStarted()
	}

	started := time.Now()
	res = e.process(ctx, accounts[item.SourceIndex], item, res)

	e.progress.finished(res, true)
	if e.observer != nil {
		e.observer.ItemFinished(res, time.Since(started))
	}

	return res
}

func (e *Executor) skip(res model.TransactionResult) model.TransactionResult {
	e.progress.finished(res, false)
	if e.observer != nil {
		e.observer.ItemSkipped(res)
	}

	return res
}

func pendingResult(item model.PlanItem, accounts []model.Account) model.TransactionResult {
	res := model.TransactionResult{
		PlanIndex:     item.Index,
		TargetAddress: item.Target.Hex(),
		Amount:        "0",
		TxHash:        model.NotAvailable,
		Status:        model.StatusFailed,
		ExplorerURL:   model.NotAvailable,
	}

	if item.SourceIndex >= 0 && item.SourceIndex < len(accounts) {
		res.SourceAddress = accounts[item.SourceIndex].Address.Hex()
	}

	if item.Policy.Value != nil {
		res.Amount = amount.FormatDecimal(item.Policy.Value)
	}

	return res
}
