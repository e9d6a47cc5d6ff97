package executor

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/keys"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/sweep/rpc"
	"github/chapool/go-sweeper/internal/sweep/signer"
	"github/chapool/go-sweeper/internal/util"
)

type itemState string

const (
	stateQuoting   itemState = "quoting"
	stateComputing itemState = "computing"
	stateSending   itemState = "sending"
	stateSucceeded itemState = "succeeded"
	stateFailed    itemState = "failed"
)

type quote struct {
	balance  *big.Int
	gasPrice *big.Int
	nonce    uint64
}

func (e *Executor) process(ctx context.Context, acc model.Account, item model.PlanItem, res model.TransactionResult) model.TransactionResult {
	log := util.LogFromContext(ctx).With().
		Int("item", item.Index).
		Str("from", acc.Address.Hex()).
		Str("to", item.Target.Hex()).
		Logger()

	fail := func(kind model.ErrorKind, err error) model.TransactionResult {
		res.Status = model.StatusFailed
		res.ErrorKind = kind
		res.ErrorMessage = err.Error()

		log.Warn().
			Err(err).
			Str("state", string(stateFailed)).
			Str("kind", kind.String()).
			Msg("SweepExecutor: transfer failed")

		return res
	}

	privateKey, err := keys.LoadKey(acc.PrivateKeyHex)
	if err != nil {
		return fail(model.KindKeyDerivationFailure, err)
	}
	defer keys.Wipe(privateKey)

	derived, err := keys.AddressOf(privateKey)
	if err != nil {
		return fail(model.KindKeyDerivationFailure, err)
	}

	if derived != acc.Address {
		return fail(model.KindKeyDerivationFailure,
			errors.Wrap(model.ErrKeyDerivationFailure, "derived address does not match account"))
	}

	log.Debug().Str("state", string(stateQuoting)).Msg("SweepExecutor: querying balance, gas price and nonce")

	q, err := e.quote(ctx, acc.Address)
	if err != nil {
		return fail(callErrorKind(ctx, err), err)
	}

	log.Debug().
		Str("state", string(stateComputing)).
		Str("balance_wei", q.balance.String()).
		Str("gas_price_wei", q.gasPrice.String()).
		Str("policy", item.Policy.Kind.String()).
		Msg("SweepExecutor: resolving amount")

	value, err := amount.Resolve(item.Policy, q.balance, q.gasPrice, e.opts.GasLimit)
	if err != nil {
		kind := model.KindOf(err)
		if kind == model.KindNone {
			kind = model.KindMalformedAmount
		}

		return fail(kind, err)
	}

	res.Amount = amount.FormatDecimal(value)

	signed, err := signer.SignLegacyTransfer(privateKey, &signer.TransferRequest{
		ChainID:     e.opts.ChainID,
		Nonce:       q.nonce,
		To:          item.Target,
		Value:       value,
		GasLimit:    e.opts.GasLimit,
		GasPrice:    q.gasPrice,
		FromAddress: acc.Address,
	})
	if err != nil {
		return fail(model.KindSendFailure, err)
	}

	log.Debug().
		Str("state", string(stateSending)).
		Str("tx_hash", signed.TxHash.Hex()).
		Uint64("nonce", q.nonce).
		Msg("SweepExecutor: broadcasting transaction")

	txHash, kind, err := e.broadcast(ctx, log, signed)
	if err != nil {
		return fail(kind, err)
	}

	res.TxHash = txHash.Hex()
	res.ExplorerURL = ExplorerLink(e.opts.ExplorerURL, txHash)

	if e.opts.WaitReceipt {
		receipt, err := e.waitForReceipt(ctx, txHash)

		switch {
		case err != nil:
			log.Warn().
				Err(err).
				Str("tx_hash", res.TxHash).
				Msg("SweepExecutor: no receipt before timeout, transaction was broadcast")
		case receipt.Status != model.ReceiptStatusSuccessful:
			return fail(model.KindSendFailure, model.ErrTransactionReverted)
		}
	}

	res.Status = model.StatusSuccess
	res.ErrorKind = model.KindNone
	res.ErrorMessage = ""

	log.Info().
		Str("state", string(stateSucceeded)).
		Str("tx_hash", res.TxHash).
		Str("amount", res.Amount).
		Msg("SweepExecutor: transfer sent")

	return res
}

func (e *Executor) quote(ctx context.Context, address common.Address) (quote, error) {
	balance, err := retry(ctx, e.opts, "balance", func(ctx context.Context) (*big.Int, error) {
		return e.client.GetBalance(ctx, address)
	})
	if err != nil {
		return quote{}, err
	}

	gasPrice, err := retry(ctx, e.opts, "gas price", e.client.GetGasPrice)
	if err != nil {
		return quote{}, err
	}

	nonce, err := retry(ctx, e.opts, "nonce", func(ctx context.Context) (uint64, error) {
		return e.client.GetPendingNonce(ctx, address)
	})
	if err != nil {
		return quote{}, err
	}

	return quote{balance: balance, gasPrice: gasPrice, nonce: nonce}, nil
}

// broadcast sends the signed bytes. Only transport level exhaustion is retried,
// always with the same bytes; a node rejection is final. A node reporting the
// transaction as already known counts as success.
func (e *Executor) broadcast(ctx context.Context, log zerolog.Logger, signed *signer.SignedTransfer) (common.Hash, model.ErrorKind, error) {
	backoff := e.opts.RetryBackoff

	for attempt := 1; ; attempt++ {
		txHash, err := e.client.SendRawTransaction(ctx, signed.RawTransaction)
		if err == nil {
			if txHash == (common.Hash{}) {
				txHash = signed.TxHash
			}

			return txHash, model.KindNone, nil
		}

		if rpc.IsAlreadyKnown(err) {
			// Only a transport failure on an earlier attempt, or on an earlier
			// endpoint of this one, can have delivered our own transaction.
			if attempt > 1 || rpc.SentBeforeKnown(err) {
				log.Debug().Err(err).Int("attempt", attempt).Msg("SweepExecutor: transaction already known to node")
				return signed.TxHash, model.KindNone, nil
			}

			return common.Hash{}, model.KindSendFailure, errors.Wrapf(model.ErrAlreadyKnown, "%v", err)
		}

		err = errors.Wrap(err, "failed to broadcast transaction")

		switch {
		case ctx.Err() != nil:
			return common.Hash{}, model.KindCanceled, err
		case rpc.IsRejected(err):
			return common.Hash{}, model.KindSendFailure, err
		case attempt >= e.opts.MaxAttempts:
			if errors.Is(err, model.ErrRPCExhausted) {
				return common.Hash{}, model.KindRPCExhausted, err
			}

			return common.Hash{}, model.KindSendFailure, err
		}

		log.Debug().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("SweepExecutor: broadcast failed on transport, retrying")

		if err := sleep(ctx, backoff); err != nil {
			return common.Hash{}, model.KindCanceled, errors.Wrap(err, "failed to broadcast transaction")
		}

		backoff = nextBackoff(backoff)
	}
}

func (e *Executor) waitForReceipt(ctx context.Context, txHash common.Hash) (*model.Receipt, error) {
	localCtx, cancel := context.WithTimeout(ctx, e.opts.ReceiptTimeout)
	defer cancel()

	ticker := time.NewTicker(e.opts.ReceiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := e.client.GetTransactionReceipt(localCtx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		if localCtx.Err() != nil {
			return nil, errors.Wrap(localCtx.Err(), "context canceled while waiting for receipt")
		}

		select {
		case <-localCtx.Done():
			return nil, errors.Wrap(localCtx.Err(), "context canceled while waiting for receipt")
		case <-ticker.C:
			continue
		}
	}
}

func callErrorKind(ctx context.Context, err error) model.ErrorKind {
	if ctx.Err() != nil {
		return model.KindCanceled
	}

	if kind := model.KindOf(err); kind != model.KindNone {
		return kind
	}

	return model.KindRPCExhausted
}
