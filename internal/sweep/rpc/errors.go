package rpc

import (
	"fmt"
	"strings"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github/chapool/go-sweeper/internal/sweep/model"
)

// ErrNullResult is returned by an attempt whose response carried a null result.
var ErrNullResult = errors.New("rpc response has null result")

// ExhaustedError is returned once every endpoint failed a logical call.
// Errors holds one entry per endpoint in the order they were tried.
type ExhaustedError struct {
	Method   string
	Attempts int
	Last     error
	Errors   []error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: %v after %d attempts: %v", e.Method, model.ErrRPCExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Is makes errors.Is(err, model.ErrRPCExhausted) hold for any exhaustion.
func (e *ExhaustedError) Is(target error) bool {
	return target == model.ErrRPCExhausted //nolint:errorlint // sentinel comparison
}

// IsRejected reports whether a node answered with a JSON-RPC error object,
// as opposed to a transport level failure.
func IsRejected(err error) bool {
	var rpcErr gethrpc.Error
	return errors.As(err, &rpcErr)
}

// IsAlreadyKnown reports whether a node refused a transaction because it already has it.
func IsAlreadyKnown(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "already known") || strings.Contains(msg, "known transaction")
}

// SentBeforeKnown reports whether an "already known" answer in err may echo a
// transaction sent by the same call: an endpoint tried earlier failed without
// a JSON-RPC answer, so it may have received the transaction anyway.
func SentBeforeKnown(err error) bool {
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		return false
	}

	for _, attemptErr := range exhausted.Errors {
		if IsAlreadyKnown(attemptErr) {
			return false
		}

		if !IsRejected(attemptErr) {
			return true
		}
	}

	return false
}
