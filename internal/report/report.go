// Package report renders previews and sweep outcomes as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/export"
	"github/chapool/go-sweeper/internal/sweep/model"
)

// Translator resolves message ids, optionally with template data.
type Translator interface {
	Translate(id string) string
	TranslateWith(id string, data map[string]any) string
}

// statusColumn is the position of the status label in an export row.
const statusColumn = 4

type Printer struct {
	w        io.Writer
	tr       Translator
	exporter *export.Exporter

	ok   func(a ...any) string
	fail func(a ...any) string
}

// NewPrinter writes to w. Colors follow color.NoColor, which is set when stdout is not a terminal.
func NewPrinter(w io.Writer, tr Translator) *Printer {
	return &Printer{
		w:        w,
		tr:       tr,
		exporter: export.New(tr),
		ok:       color.New(color.FgGreen).SprintFunc(),
		fail:     color.New(color.FgRed).SprintFunc(),
	}
}

// Preview prints one row per parsed line with its masked key, derived address and amount policy.
func (p *Printer) Preview(accounts []model.Account, settings amount.Settings) {
	table := p.newTable([]string{
		p.tr.Translate("PreviewHeaderLine"),
		p.tr.Translate("PreviewHeaderKey"),
		p.tr.Translate("PreviewHeaderAddress"),
		p.tr.Translate("PreviewHeaderAmount"),
		p.tr.Translate("PreviewHeaderStatus"),
	})

	valid := 0

	for _, acc := range accounts {
		key, address, value := "-", "-", "-"
		status := p.fail(fmt.Sprintf("%s: %s", p.tr.Translate("PreviewInvalid"), acc.ErrorKind))

		if acc.PrivateKeyHex != "" {
			key = acc.MaskedKey()
		}

		if acc.Valid {
			valid++
			address = acc.Address.Hex()
			value = p.previewAmount(settings.PolicyFor(acc))
			status = p.ok(p.tr.Translate("PreviewValid"))
		}

		table.Append([]string{strconv.Itoa(acc.Line), key, address, value, status})
	}

	table.Render()

	fmt.Fprintln(p.w, p.tr.TranslateWith("SummaryParsed", map[string]any{
		"Lines": len(accounts),
		"Valid": valid,
	}))
}

// Results prints the localized result rows followed by the finish summary.
func (p *Printer) Results(results []model.TransactionResult) {
	table := p.newTable(p.exporter.Header())

	succeeded, failed := 0, 0

	for _, res := range results {
		row := p.exporter.Row(res)

		if res.Succeeded() {
			succeeded++
			row[statusColumn] = p.ok(row[statusColumn])
		} else {
			failed++
			row[statusColumn] = p.fail(row[statusColumn])
		}

		table.Append(row)
	}

	table.Render()

	fmt.Fprintln(p.w, p.tr.TranslateWith("SummaryFinished", map[string]any{
		"Succeeded": succeeded,
		"Failed":    failed,
	}))
}

func (p *Printer) previewAmount(policy model.AmountPolicy) string {
	if policy.Kind == model.PolicyAllMinusFee {
		return p.tr.Translate("PreviewAmountAll")
	}

	return amount.FormatDecimal(policy.Value)
}

func (p *Printer) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table
}
