package executor

import (
	"math/big"
	"time"

	"github/chapool/go-sweeper/internal/sweep/amount"
)

const (
	DefaultWorkers             = 3
	MaxWorkers                 = 10
	DefaultMinSpacing          = time.Second
	DefaultMaxAttempts         = 3
	DefaultRetryBackoff        = 500 * time.Millisecond
	maxRetryBackoff            = 5 * time.Second
	DefaultReceiptTimeout      = 2 * time.Minute
	DefaultReceiptPollInterval = 3 * time.Second
)

// Options is the immutable configuration of one executor.
type Options struct {
	ChainID     *big.Int
	GasLimit    uint64
	Workers     int
	MinSpacing  time.Duration // minimum gap between two job starts, 0 disables spacing
	MaxAttempts int           // attempts per quoting call and per transport-failed broadcast
	// RetryBackoff doubles after every failed attempt.
	RetryBackoff time.Duration
	// ExplorerURL is either a base URL or a template containing {hash}.
	ExplorerURL         string
	WaitReceipt         bool
	ReceiptTimeout      time.Duration
	ReceiptPollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.GasLimit == 0 {
		o.GasLimit = amount.DefaultGasLimit
	}

	switch {
	case o.Workers <= 0:
		o.Workers = DefaultWorkers
	case o.Workers > MaxWorkers:
		o.Workers = MaxWorkers
	}

	if o.MinSpacing < 0 {
		o.MinSpacing = 0
	}

	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}

	if o.RetryBackoff <= 0 {
		o.RetryBackoff = DefaultRetryBackoff
	}

	if o.ReceiptTimeout <= 0 {
		o.ReceiptTimeout = DefaultReceiptTimeout
	}

	if o.ReceiptPollInterval <= 0 {
		o.ReceiptPollInterval = DefaultReceiptPollInterval
	}

	return o
}
