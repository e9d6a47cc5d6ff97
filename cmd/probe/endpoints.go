package probe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/util/command"
)

var errNoHealthyEndpoint = errors.New("no healthy endpoint")

func newEndpoints() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "Probes every configured RPC endpoint",
		Long: `Queries eth_chainId and eth_gasPrice on every configured endpoint in
failover order and flags endpoints serving a different chain.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd, nil)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runEndpoints(ctx, cmd, s)
			})
		},
	}
}

func runEndpoints(ctx context.Context, cmd *cobra.Command, s *api.Server) error {
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	want := s.Config.Chain.ChainID()

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"#", "Endpoint", "Chain ID", "Gas Price (gwei)", "Latency", "Status"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	healthy := 0

	for i, status := range s.RPC.Probe(ctx) {
		row := []string{strconv.Itoa(i + 1), status.Label, "-", "-", status.Latency.Round(time.Millisecond).String()}

		switch {
		case !status.Healthy():
			row = append(row, fail(status.Err.Error()))
		case status.ChainID.Cmp(want) != 0:
			row[2] = status.ChainID.String()
			row = append(row, fail(fmt.Sprintf("chain id mismatch, want %s", want)))
		default:
			healthy++
			row[2] = status.ChainID.String()
			row[3] = amount.FormatGwei(status.GasPrice)
			row = append(row, ok("ok"))
		}

		table.Append(row)
	}

	table.Render()

	if healthy == 0 {
		return errNoHealthyEndpoint
	}

	return nil
}
