package parse

import (
	"strings"

	"github.com/spf13/cobra"
	"github/chapool/go-sweeper/internal/i18n"
	"github/chapool/go-sweeper/internal/report"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/input"
	"github/chapool/go-sweeper/internal/sweep/keys"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/util/command"
)

const (
	keysFlag        = "keys"
	amountModeFlag  = "amount-mode"
	fixedAmountFlag = "fixed-amount"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Validates a key file and prints a preview",
		Long: `Parses the key input, derives the address of every valid key and prints
one row per line. No network calls are made.`,
		RunE: run,
	}

	cmd.Flags().String(keysFlag, command.StdinPath, `Key file, one "key", "key,amount", "key=amount" or "key amount" per line ("-" for stdin)`)
	cmd.Flags().String(amountModeFlag, "all", "Amount for lines without their own amount: all or fixed")
	cmd.Flags().String(fixedAmountFlag, "", "Amount per transfer in FIXED mode, e.g. 0.05")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := command.LoadConfig(cmd, nil)
	if err != nil {
		return err
	}

	command.SetupLogger(cfg.Logger)

	flags := cmd.Flags()
	keysPath, _ := flags.GetString(keysFlag)
	amountMode, _ := flags.GetString(amountModeFlag)
	fixedAmount, _ := flags.GetString(fixedAmountFlag)

	settings, err := amount.NewSettings(model.AmountMode(strings.ToUpper(amountMode)), fixedAmount)
	if err != nil {
		return err
	}

	text, err := command.ReadInput(keysPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	tr, err := i18n.New(cfg.Locale)
	if err != nil {
		return err
	}

	accounts := keys.ResolveAll(input.Parse(text))
	report.NewPrinter(cmd.OutOrStdout(), tr).Preview(accounts, settings)

	return nil
}
