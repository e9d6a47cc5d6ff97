package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransferRequest represents a native-coin transfer to be signed
type TransferRequest struct {
	ChainID     *big.Int       // Chain ID used for EIP-155 replay protection
	Nonce       uint64         // Pending nonce of the sender
	To          common.Address // Recipient address
	Value       *big.Int       // Amount in wei
	GasLimit    uint64         // Gas limit
	GasPrice    *big.Int       // Legacy gas price in wei
	FromAddress common.Address // Address the key is expected to control
}

// SignedTransfer represents a signed legacy transaction
type SignedTransfer struct {
	RawTransaction []byte      // RLP-encoded signed transaction
	TxHash         common.Hash // Transaction hash
}
