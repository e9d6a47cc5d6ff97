package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix prefixes every environment variable, e.g. SWEEPER_CHAIN_RPC_URLS.
const EnvPrefix = "SWEEPER"

// NewViper returns a viper instance carrying the defaults and reading the environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("chain.id", d.Chain.ID)
	v.SetDefault("chain.name", d.Chain.Name)
	v.SetDefault("chain.symbol", d.Chain.Symbol)
	v.SetDefault("chain.rpc_urls", d.Chain.RPCURLs)
	v.SetDefault("chain.explorer_url", d.Chain.ExplorerURL)
	v.SetDefault("engine.workers", d.Engine.Workers)
	v.SetDefault("engine.min_spacing", d.Engine.MinSpacing)
	v.SetDefault("engine.rpc_attempt_timeout", d.Engine.RPCAttemptTimeout)
	v.SetDefault("engine.max_attempts", d.Engine.MaxAttempts)
	v.SetDefault("engine.retry_backoff", d.Engine.RetryBackoff)
	v.SetDefault("engine.gas_limit", d.Engine.GasLimit)
	v.SetDefault("engine.wait_receipt", d.Engine.WaitReceipt)
	v.SetDefault("engine.receipt_timeout", d.Engine.ReceiptTimeout)
	v.SetDefault("engine.receipt_poll_interval", d.Engine.ReceiptPollInterval)
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.pretty", d.Logger.PrettyPrintConsole)
	v.SetDefault("server.listen_address", d.Server.ListenAddress)
	v.SetDefault("locale", d.Locale)

	return v
}

// Load reads the optional config file into v and decodes the result.
func Load(v *viper.Viper, configFile string) (Sweep, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return Sweep{}, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	var cfg Sweep
	if err := v.Unmarshal(&cfg); err != nil {
		return Sweep{}, errors.Wrap(err, "failed to decode config")
	}

	cfg.Chain.RPCURLs = cleanList(cfg.Chain.RPCURLs)

	if err := cfg.Validate(); err != nil {
		return Sweep{}, err
	}

	return cfg, nil
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are skipped, variables already set are not overwritten.
func LoadDotEnv(files ...string) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		if err := gotenv.Load(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("Failed to load env file")
		}
	}
}

// DefaultSweepConfigFromEnv loads .env and decodes the configuration from environment variables only.
func DefaultSweepConfigFromEnv() (Sweep, error) {
	LoadDotEnv(".env")

	return Load(NewViper(), "")
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
