package config

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Chain struct {
	ID          int64    `mapstructure:"id" json:"id"`
	Name        string   `mapstructure:"name" json:"name"`
	Symbol      string   `mapstructure:"symbol" json:"symbol"`
	RPCURLs     []string `mapstructure:"rpc_urls" json:"rpcUrls"`
	ExplorerURL string   `mapstructure:"explorer_url" json:"explorerUrl"`
}

// ChainID returns the chain id as used for transaction signing.
func (c Chain) ChainID() *big.Int {
	return big.NewInt(c.ID)
}

type Engine struct {
	Workers             int           `mapstructure:"workers" json:"workers"`
	MinSpacing          time.Duration `mapstructure:"min_spacing" json:"minSpacing"`
	RPCAttemptTimeout   time.Duration `mapstructure:"rpc_attempt_timeout" json:"rpcAttemptTimeout"`
	MaxAttempts         int           `mapstructure:"max_attempts" json:"maxAttempts"`
	RetryBackoff        time.Duration `mapstructure:"retry_backoff" json:"retryBackoff"`
	GasLimit            uint64        `mapstructure:"gas_limit" json:"gasLimit"`
	WaitReceipt         bool          `mapstructure:"wait_receipt" json:"waitReceipt"`
	ReceiptTimeout      time.Duration `mapstructure:"receipt_timeout" json:"receiptTimeout"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval" json:"receiptPollInterval"`
}

type Logger struct {
	Level              string `mapstructure:"level" json:"level"`
	PrettyPrintConsole bool   `mapstructure:"pretty" json:"prettyPrintConsole"`
}

// Server configures the optional HTTP endpoint for probes, metrics and sweep progress.
// An empty ListenAddress disables it.
type Server struct {
	ListenAddress string `mapstructure:"listen_address" json:"listenAddress"`
}

// Sweep is the complete, immutable configuration of a sweeper process.
type Sweep struct {
	Chain  Chain  `mapstructure:"chain" json:"chain"`
	Engine Engine `mapstructure:"engine" json:"engine"`
	Logger Logger `mapstructure:"logger" json:"logger"`
	Server Server `mapstructure:"server" json:"server"`
	Locale string `mapstructure:"locale" json:"locale"`
}

const (
	maxWorkers      = 10
	defaultGasLimit = 21000
)

// Default returns the built-in configuration, a placeholder Monad chain preset.
func Default() Sweep {
	return Sweep{
		Chain: Chain{
			ID:          77777, //nolint:mnd // placeholder chain id
			Name:        "Monad",
			Symbol:      "MON",
			RPCURLs:     []string{"https://rpc.monad.xyz"},
			ExplorerURL: "https://monadscan.io",
		},
		Engine: Engine{
			Workers:             3, //nolint:mnd
			MinSpacing:          time.Second,
			RPCAttemptTimeout:   10 * time.Second, //nolint:mnd
			MaxAttempts:         3,                //nolint:mnd
			RetryBackoff:        500 * time.Millisecond,
			GasLimit:            defaultGasLimit,
			WaitReceipt:         false,
			ReceiptTimeout:      2 * time.Minute, //nolint:mnd
			ReceiptPollInterval: 3 * time.Second, //nolint:mnd
		},
		Logger: Logger{
			Level:              zerolog.InfoLevel.String(),
			PrettyPrintConsole: false,
		},
		Server: Server{
			ListenAddress: "",
		},
		Locale: "en",
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Sweep) Validate() error {
	if c.Chain.ID <= 0 {
		return errors.Errorf("chain id must be positive, got %d", c.Chain.ID)
	}

	if len(c.Chain.RPCURLs) == 0 {
		return errors.New("at least one rpc url is required")
	}

	if c.Engine.Workers < 1 || c.Engine.Workers > maxWorkers {
		return errors.Errorf("workers must be between 1 and %d, got %d", maxWorkers, c.Engine.Workers)
	}

	if c.Engine.MinSpacing < 0 {
		return errors.New("min spacing must not be negative")
	}

	if c.Engine.GasLimit == 0 {
		return errors.New("gas limit must be positive")
	}

	if _, err := zerolog.ParseLevel(c.Logger.Level); err != nil {
		return errors.Wrap(err, "invalid log level")
	}

	return nil
}
