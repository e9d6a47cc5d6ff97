// Package signer builds and signs legacy value transfers.
package signer

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/go-sweeper/internal/sweep/keys"
	"github/chapool/go-sweeper/internal/sweep/model"
)

// SignLegacyTransfer signs a legacy EIP-155 transaction with no calldata.
func SignLegacyTransfer(privateKey *ecdsa.PrivateKey, req *TransferRequest) (*SignedTransfer, error) {
	if req == nil || req.ChainID == nil || req.Value == nil || req.GasPrice == nil {
		return nil, errors.New("incomplete transfer request")
	}

	// Verify from address matches private key
	derivedAddress, err := keys.AddressOf(privateKey)
	if err != nil {
		return nil, err
	}

	if derivedAddress != req.FromAddress {
		return nil, errors.Wrap(model.ErrKeyDerivationFailure, "from address does not match private key")
	}

	to := req.To

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    req.Nonce,
		GasPrice: req.GasPrice,
		Gas:      req.GasLimit,
		To:       &to,
		Value:    req.Value,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(req.ChainID), privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	// Encode transaction to RLP
	txBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	return &SignedTransfer{
		RawTransaction: txBytes,
		TxHash:         signedTx.Hash(),
	}, nil
}
