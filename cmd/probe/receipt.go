package probe

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/sweep/executor"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/util/command"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

func newReceipt() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <tx-hash>",
		Short: "Looks up the receipt of a transaction",
		Long: `Fetches the receipt of a transaction through the configured endpoints
and prints its status, block number and explorer link.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !txHashPattern.MatchString(args[0]) {
				return errors.Errorf("invalid transaction hash %q", args[0])
			}

			cfg, err := command.LoadConfig(cmd, nil)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runReceipt(ctx, cmd, s, common.HexToHash(args[0]))
			})
		},
	}
}

func runReceipt(ctx context.Context, cmd *cobra.Command, s *api.Server, hash common.Hash) error {
	out := cmd.OutOrStdout()

	receipt, err := s.RPC.GetTransactionReceipt(ctx, hash)
	if err != nil {
		return errors.Wrap(err, "failed to fetch receipt")
	}

	fmt.Fprintf(out, "Explorer: %s\n", executor.ExplorerLink(s.Config.Chain.ExplorerURL, hash))

	if receipt == nil {
		fmt.Fprintln(out, "Status:   pending or unknown")
		return nil
	}

	fmt.Fprintf(out, "Block:    %s\n", receipt.BlockNumber)

	if receipt.Status != model.ReceiptStatusSuccessful {
		fmt.Fprintln(out, "Status:   reverted")
		return model.ErrTransactionReverted
	}

	fmt.Fprintln(out, "Status:   success")

	return nil
}
