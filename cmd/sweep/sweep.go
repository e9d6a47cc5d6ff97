package sweep

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/report"
	"github/chapool/go-sweeper/internal/sweep"
	"github/chapool/go-sweeper/internal/sweep/export"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/util/command"
)

const (
	keysFlag           = "keys"
	targetFlag         = "target"
	targetsFileFlag    = "targets-file"
	collectionModeFlag = "collection-mode"
	amountModeFlag     = "amount-mode"
	fixedAmountFlag    = "fixed-amount"
	outFlag            = "out"
	yesFlag            = "yes"
	workersFlag        = "workers"
	minSpacingFlag     = "min-spacing"
	waitReceiptFlag    = "wait-receipt"
	metricsAddrFlag    = "metrics-addr"
)

var bindings = map[string]string{
	workersFlag:     "engine.workers",
	minSpacingFlag:  "engine.min_spacing",
	waitReceiptFlag: "engine.wait_receipt",
	metricsAddrFlag: "server.listen_address",
}

var errIncomplete = errors.New("sweep incomplete")

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Transfers the native coin of all keys to the target addresses",
		Long: `Parses the key input, builds the transfer plan and, after confirmation,
sends one signed transfer per valid key. Results are printed in input order
and optionally written to a CSV file.

many-to-one sends everything to --target, many-to-many assigns the targets
of --targets-file round robin.`,
		RunE: run,
	}

	flags := cmd.Flags()
	flags.String(keysFlag, command.StdinPath, `Key file, one "key", "key,amount", "key=amount" or "key amount" per line ("-" for stdin)`)
	flags.String(targetFlag, "", "Target address in many-to-one mode")
	flags.String(targetsFileFlag, "", "File with one target address per line in many-to-many mode")
	flags.String(collectionModeFlag, string(model.ManyToOne), "many-to-one or many-to-many")
	flags.String(amountModeFlag, "all", "Amount for lines without their own amount: all (balance minus fee) or fixed")
	flags.String(fixedAmountFlag, "", "Amount per transfer in fixed mode, e.g. 0.05")
	flags.String(outFlag, "", "Write the results as CSV to this file")
	flags.BoolP(yesFlag, "y", false, "Skip the confirmation prompt")
	flags.Int(workersFlag, 0, "Concurrent transfers, 1 to 10 (default 3)")
	flags.Duration(minSpacingFlag, 0, "Minimum time between transfer starts (default 1s)")
	flags.Bool(waitReceiptFlag, false, "Wait for each receipt and fail reverted transfers")
	flags.String(metricsAddrFlag, "", "Serve health, metrics and progress on this address while sweeping, e.g. :9100")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := command.LoadConfig(cmd, bindings)
	if err != nil {
		return err
	}

	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool(yesFlag)
	keysPath, _ := cmd.Flags().GetString(keysFlag)
	if !yes && keysPath == command.StdinPath {
		return errors.New("keys are read from stdin, confirm with --yes")
	}

	outPath, _ := cmd.Flags().GetString(outFlag)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		printer := report.NewPrinter(cmd.OutOrStdout(), s.I18n)

		prepared, err := s.Sweep.Prepare(req)
		if err != nil {
			return err
		}

		printer.Preview(prepared.Accounts, prepared.Settings)

		if !yes {
			question := s.I18n.TranslateWith("ConfirmSweep", map[string]any{
				"Items": len(prepared.Plan),
				"Chain": fmt.Sprintf("%s (%d)", s.Config.Chain.Name, s.Config.Chain.ID),
			})

			ok, err := command.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question)
			if err != nil {
				return err
			}

			if !ok {
				log.Info().Msg("Sweep aborted")
				return nil
			}
		}

		rep, err := s.Sweep.Execute(ctx, prepared)
		if err != nil {
			return err
		}

		printer.Results(rep.Results)

		if outPath != "" {
			if err := writeCSV(outPath, export.New(s.I18n), rep.Results); err != nil {
				return err
			}

			log.Info().Str("file", outPath).Msg("Results written")
		}

		if rep.Summary.Failed > 0 {
			return errors.Wrapf(errIncomplete, "%d of %d transfers failed", rep.Summary.Failed, len(rep.Results))
		}

		return nil
	})
}

func requestFromFlags(cmd *cobra.Command) (sweep.Request, error) {
	flags := cmd.Flags()

	keysPath, _ := flags.GetString(keysFlag)
	target, _ := flags.GetString(targetFlag)
	targetsFile, _ := flags.GetString(targetsFileFlag)
	collectionMode, _ := flags.GetString(collectionModeFlag)
	amountMode, _ := flags.GetString(amountModeFlag)
	fixedAmount, _ := flags.GetString(fixedAmountFlag)

	req := sweep.Request{
		CollectionMode: model.CollectionMode(strings.ToLower(collectionMode)),
		Target:         target,
		AmountMode:     model.AmountMode(strings.ToUpper(amountMode)),
		FixedAmount:    fixedAmount,
	}

	switch req.CollectionMode {
	case model.ManyToOne:
	case model.ManyToMany:
		if targetsFile == "" {
			return sweep.Request{}, errors.New("many-to-many requires --targets-file")
		}

		text, err := command.ReadInput(targetsFile, cmd.InOrStdin())
		if err != nil {
			return sweep.Request{}, err
		}

		req.TargetsText = text
	default:
		return sweep.Request{}, errors.Errorf("unknown collection mode %q", collectionMode)
	}

	text, err := command.ReadInput(keysPath, cmd.InOrStdin())
	if err != nil {
		return sweep.Request{}, err
	}

	req.KeysText = text

	return req, nil
}

func writeCSV(path string, exporter *export.Exporter, results []model.TransactionResult) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if err := exporter.WriteCSV(f, results); err != nil {
		f.Close()
		return err
	}

	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
