package model_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github/chapool/go-sweeper/internal/sweep/model"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, model.KindNone, model.KindOf(nil))
	assert.Equal(t, model.KindNone, model.KindOf(errors.New("boom")))
	assert.Equal(t, model.KindMalformedKey, model.KindOf(errors.Wrap(model.ErrMalformedKey, "line 3")))
	assert.Equal(t, model.KindMalformedAmount, model.KindOf(errors.Wrap(model.ErrAmountTooPrecise, "line 1")))
	assert.Equal(t, model.KindRPCExhausted, model.KindOf(errors.Wrap(model.ErrRPCExhausted, "eth_getBalance")))
	assert.Equal(t, model.KindNoValidAccounts, model.KindOf(model.ErrNoValidAccounts))
	assert.Equal(t, model.KindDuplicateKey, model.KindOf(errors.Wrap(model.ErrDuplicateKey, "first listed on line 1")))
	assert.Equal(t, model.KindSendFailure, model.KindOf(errors.Wrap(model.ErrAlreadyKnown, "already known")))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "RpcExhausted", model.KindRPCExhausted.String())
	assert.Equal(t, "InsufficientBalance", model.KindInsufficientBalance.String())
	assert.Equal(t, "DuplicateKey", model.KindDuplicateKey.String())
	assert.Equal(t, "Unknown", model.ErrorKind(99).String())
}

func TestInsufficientBalanceMessage(t *testing.T) {
	assert.Equal(t, "insufficient balance", model.ErrInsufficientBalance.Error())
}

func TestMaskedKey(t *testing.T) {
	acc := model.Account{PrivateKeyHex: "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"}
	assert.Equal(t, "0x4c0883a6...", acc.MaskedKey())
}
