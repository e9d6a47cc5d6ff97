package report_test

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-sweeper/internal/i18n"
	"github/chapool/go-sweeper/internal/report"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/input"
	"github/chapool/go-sweeper/internal/sweep/keys"
	"github/chapool/go-sweeper/internal/sweep/model"
)

func newPrinter(t *testing.T, locale string) (*report.Printer, *bytes.Buffer) {
	t.Helper()

	color.NoColor = true

	tr, err := i18n.New(locale)
	require.NoError(t, err)

	var buf bytes.Buffer

	return report.NewPrinter(&buf, tr), &buf
}

func TestPreview(t *testing.T) {
	p, buf := newPrinter(t, "en")

	keyA := "0x" + strings.Repeat("a", 64)
	accounts := keys.ResolveAll(input.Parse(keyA + ",0.1\n" + strings.Repeat("b", 64) + "\nnot-a-key"))

	settings, err := amount.NewSettings(model.AmountAll, "")
	require.NoError(t, err)

	p.Preview(accounts, settings)

	out := buf.String()
	assert.Contains(t, out, "Private Key")
	assert.Contains(t, out, "0xaaaaaaaa...")
	assert.Contains(t, out, accounts[0].Address.Hex())
	assert.Contains(t, out, "0.1")
	assert.Contains(t, out, "ALL balance - gas")
	assert.Contains(t, out, "Invalid: MalformedKey")
	assert.Contains(t, out, "Parsed 3 lines, 2 valid keys")
	assert.NotContains(t, out, keyA)
}

func TestPreviewFixed(t *testing.T) {
	p, buf := newPrinter(t, "en")

	accounts := keys.ResolveAll(input.Parse(strings.Repeat("b", 64)))

	settings, err := amount.NewSettings(model.AmountFixed, "0.05")
	require.NoError(t, err)

	p.Preview(accounts, settings)
	assert.Contains(t, buf.String(), "0.05")
	assert.NotContains(t, buf.String(), "ALL balance - gas")
}

func TestResults(t *testing.T) {
	p, buf := newPrinter(t, "zh")

	p.Results([]model.TransactionResult{
		{
			SourceAddress: "0xsource1",
			TargetAddress: "0xtarget",
			Amount:        amount.FormatDecimal(big.NewInt(1_000_000_000_000_000)),
			TxHash:        "0xhash",
			Status:        model.StatusSuccess,
			ExplorerURL:   "https://monadscan.io/tx/0xhash",
		},
		{
			SourceAddress: "0xsource2",
			TargetAddress: "0xtarget",
			Amount:        "0",
			TxHash:        model.NotAvailable,
			Status:        model.StatusFailed,
			ErrorKind:     model.KindInsufficientBalance,
			ErrorMessage:  "insufficient balance",
			ExplorerURL:   model.NotAvailable,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "0.001")
	assert.Contains(t, out, "https://monadscan.io/tx/0xhash")
	assert.Contains(t, out, "insufficient balance")
	assert.Contains(t, out, "成功")
	assert.Contains(t, out, "失败")
	assert.Contains(t, out, "来源地址")
}
