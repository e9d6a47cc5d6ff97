package signer_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-sweeper/internal/sweep/keys"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/sweep/signer"
)

const testKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestSignLegacyTransfer(t *testing.T) {
	privateKey, err := keys.LoadKey(testKey)
	require.NoError(t, err)

	from, err := keys.AddressOf(privateKey)
	require.NoError(t, err)

	to := common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")
	req := &signer.TransferRequest{
		ChainID:     big.NewInt(77777),
		Nonce:       5,
		To:          to,
		Value:       big.NewInt(1_000_000),
		GasLimit:    21000,
		GasPrice:    big.NewInt(2_000_000_000),
		FromAddress: from,
	}

	signed, err := signer.SignLegacyTransfer(privateKey, req)
	require.NoError(t, err)

	tx := new(types.Transaction)
	require.NoError(t, tx.UnmarshalBinary(signed.RawTransaction))

	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
	assert.Equal(t, signed.TxHash, tx.Hash())
	assert.Equal(t, uint64(5), tx.Nonce())
	assert.Equal(t, uint64(21000), tx.Gas())
	assert.Equal(t, "2000000000", tx.GasPrice().String())
	assert.Equal(t, "1000000", tx.Value().String())
	assert.Equal(t, to, *tx.To())
	assert.Empty(t, tx.Data())
	assert.Equal(t, "77777", tx.ChainId().String())

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(77777)), tx)
	require.NoError(t, err)
	assert.Equal(t, from, sender)
}

func TestSignLegacyTransferAddressMismatch(t *testing.T) {
	privateKey, err := keys.LoadKey(testKey)
	require.NoError(t, err)

	_, err = signer.SignLegacyTransfer(privateKey, &signer.TransferRequest{
		ChainID:     big.NewInt(1),
		To:          common.Address{},
		Value:       big.NewInt(1),
		GasLimit:    21000,
		GasPrice:    big.NewInt(1),
		FromAddress: common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"),
	})
	require.ErrorIs(t, err, model.ErrKeyDerivationFailure)
}

func TestSignLegacyTransferIncompleteRequest(t *testing.T) {
	privateKey, err := keys.LoadKey(testKey)
	require.NoError(t, err)

	_, err = signer.SignLegacyTransfer(privateKey, &signer.TransferRequest{Value: big.NewInt(1)})
	require.Error(t, err)
}
