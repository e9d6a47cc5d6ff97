package model

import (
	"github.com/pkg/errors"
)

// ErrorKind classifies why an account or a plan item could not be processed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMalformedKey
	KindMalformedAmount
	KindKeyDerivationFailure
	KindInvalidTargetAddress
	KindEmptyTargetSet
	KindRPCExhausted
	KindInsufficientBalance
	KindSendFailure
	KindCanceled
	KindNoValidAccounts
	KindDuplicateKey
)

var kindNames = map[ErrorKind]string{
	KindNone:                 "None",
	KindMalformedKey:         "MalformedKey",
	KindMalformedAmount:      "MalformedAmount",
	KindKeyDerivationFailure: "KeyDerivationFailure",
	KindInvalidTargetAddress: "InvalidTargetAddress",
	KindEmptyTargetSet:       "EmptyTargetSet",
	KindRPCExhausted:         "RpcExhausted",
	KindInsufficientBalance:  "InsufficientBalance",
	KindSendFailure:          "SendFailure",
	KindCanceled:             "Canceled",
	KindNoValidAccounts:      "NoValidAccounts",
	KindDuplicateKey:         "DuplicateKey",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Unknown"
}

var (
	ErrMalformedKey          = errors.New("malformed private key")
	ErrMalformedAmount       = errors.New("malformed amount")
	ErrKeyDerivationFailure  = errors.New("failed to derive address from private key")
	ErrInvalidTargetAddress  = errors.New("invalid target address")
	ErrEmptyTargetSet        = errors.New("target address list is empty")
	ErrRPCExhausted          = errors.New("all rpc endpoints failed")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrSendFailure           = errors.New("transaction rejected")
	ErrCanceled              = errors.New("sweep canceled before start")
	ErrNoValidAccounts       = errors.New("no valid accounts to sweep")
	ErrTransactionReverted   = errors.New("transaction reverted")
	ErrZeroTransferAmount    = errors.New("transfer amount must be greater than zero")
	ErrAmountTooPrecise      = errors.New("amount has more than 18 fractional digits")
	ErrUnsupportedLineFormat = errors.New("expected a private key and an optional amount")
	ErrDuplicateKey          = errors.New("private key is listed more than once")
	ErrAlreadyKnown          = errors.New("transaction was already known to the node before this transfer sent it")
)

var kindSentinels = []struct {
	err  error
	kind ErrorKind
}{
	{ErrMalformedKey, KindMalformedKey},
	{ErrUnsupportedLineFormat, KindMalformedKey},
	{ErrMalformedAmount, KindMalformedAmount},
	{ErrAmountTooPrecise, KindMalformedAmount},
	{ErrZeroTransferAmount, KindMalformedAmount},
	{ErrKeyDerivationFailure, KindKeyDerivationFailure},
	{ErrInvalidTargetAddress, KindInvalidTargetAddress},
	{ErrEmptyTargetSet, KindEmptyTargetSet},
	{ErrRPCExhausted, KindRPCExhausted},
	{ErrInsufficientBalance, KindInsufficientBalance},
	{ErrSendFailure, KindSendFailure},
	{ErrTransactionReverted, KindSendFailure},
	{ErrCanceled, KindCanceled},
	{ErrNoValidAccounts, KindNoValidAccounts},
	{ErrDuplicateKey, KindDuplicateKey},
	{ErrAlreadyKnown, KindSendFailure},
}

// KindOf returns the kind of the first known sentinel found in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	for _, s := range kindSentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}

	return KindNone
}
