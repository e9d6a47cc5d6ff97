package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-sweeper/cmd/env"
	"github/chapool/go-sweeper/cmd/parse"
	"github/chapool/go-sweeper/cmd/probe"
	"github/chapool/go-sweeper/cmd/sweep"
	"github/chapool/go-sweeper/internal/config"
	"github/chapool/go-sweeper/internal/util/command"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "sweeper",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Collects the native coin of many EVM accounts into one or more target addresses.
Configured through flags, a config file or ENV (prefix %s_).`, config.ModuleName, config.EnvPrefix),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	command.AddPersistentFlags(rootCmd)

	// attach the subcommands
	rootCmd.AddCommand(
		env.New(),
		parse.New(),
		probe.New(),
		sweep.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
