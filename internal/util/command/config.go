package command

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-sweeper/internal/config"
)

const (
	ConfigFlag   = "config"
	EnvFileFlag  = "env-file"
	RPCFlag      = "rpc"
	ChainIDFlag  = "chain-id"
	ExplorerFlag = "explorer"
	LocaleFlag   = "locale"
	LogLevelFlag = "log-level"
	PrettyFlag   = "pretty"
)

// commonBindings maps the persistent root flags to their config keys.
var commonBindings = map[string]string{
	RPCFlag:      "chain.rpc_urls",
	ChainIDFlag:  "chain.id",
	ExplorerFlag: "chain.explorer_url",
	LocaleFlag:   "locale",
	LogLevelFlag: "logger.level",
	PrettyFlag:   "logger.pretty",
}

// AddPersistentFlags registers the flags every subcommand understands on root.
func AddPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String(ConfigFlag, "", "Config file (toml, yaml or json)")
	flags.StringSlice(EnvFileFlag, []string{".env"}, "Env files to load before reading the environment")
	flags.StringSlice(RPCFlag, nil, "RPC endpoints in failover order (default "+config.Default().Chain.RPCURLs[0]+")")
	flags.Int64(ChainIDFlag, 0, "Chain id used for signing")
	flags.String(ExplorerFlag, "", "Explorer base url or template containing {hash}")
	flags.String(LocaleFlag, "", "Locale of tables and CSV headers (en, zh)")
	flags.String(LogLevelFlag, "", "Log level (debug, info, warn, error)")
	flags.Bool(PrettyFlag, false, "Pretty print logs")
}

// LoadConfig resolves the configuration from defaults, env files, the environment, the
// optional config file and finally the changed flags of cmd. bindings maps additional
// flag names of cmd to config keys.
func LoadConfig(cmd *cobra.Command, bindings map[string]string) (config.Sweep, error) {
	flags := cmd.Flags()

	envFiles, err := flags.GetStringSlice(EnvFileFlag)
	if err != nil {
		return config.Sweep{}, errors.Wrap(err, "failed to read env-file flag")
	}
	config.LoadDotEnv(envFiles...)

	configFile, err := flags.GetString(ConfigFlag)
	if err != nil {
		return config.Sweep{}, errors.Wrap(err, "failed to read config flag")
	}

	v := config.NewViper()

	for _, m := range []map[string]string{commonBindings, bindings} {
		for name, key := range m {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}

			if err := v.BindPFlag(key, flag); err != nil {
				return config.Sweep{}, errors.Wrapf(err, "failed to bind flag %s", name)
			}
		}
	}

	return config.Load(v, configFile)
}
