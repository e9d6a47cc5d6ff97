// Package export turns sweep results into localized tabular rows.
package export

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"github/chapool/go-sweeper/internal/sweep/model"
)

// Header message ids, in column order.
var headerIDs = []string{
	"ExportHeaderSource",
	"ExportHeaderTarget",
	"ExportHeaderAmount",
	"ExportHeaderTxHash",
	"ExportHeaderStatus",
	"ExportHeaderError",
	"ExportHeaderExplorer",
}

var fallbackLabels = map[string]string{
	"ExportHeaderSource":   "Source Address",
	"ExportHeaderTarget":   "Target Address",
	"ExportHeaderAmount":   "Amount",
	"ExportHeaderTxHash":   "Tx Hash",
	"ExportHeaderStatus":   "Status",
	"ExportHeaderError":    "Error",
	"ExportHeaderExplorer": "Explorer",
	"StatusSuccess":        "Success",
	"StatusFailed":         "Failed",
}

// Translator resolves a message id to a localized label.
type Translator interface {
	Translate(id string) string
}

type fallback struct{}

func (fallback) Translate(id string) string {
	if label, ok := fallbackLabels[id]; ok {
		return label
	}

	return id
}

// Exporter converts results into rows. A nil Translator yields English labels.
type Exporter struct {
	tr Translator
}

func New(tr Translator) *Exporter {
	if tr == nil {
		tr = fallback{}
	}

	return &Exporter{tr: tr}
}

// Header returns the localized column names.
func (e *Exporter) Header() []string {
	header := make([]string, 0, len(headerIDs))
	for _, id := range headerIDs {
		header = append(header, e.tr.Translate(id))
	}

	return header
}

// StatusLabel returns the localized label of status.
func (e *Exporter) StatusLabel(status model.Status) string {
	if status == model.StatusSuccess {
		return e.tr.Translate("StatusSuccess")
	}

	return e.tr.Translate("StatusFailed")
}

// Row returns the columns of a single result.
func (e *Exporter) Row(res model.TransactionResult) []string {
	return []string{
		res.SourceAddress,
		res.TargetAddress,
		res.Amount,
		res.TxHash,
		e.StatusLabel(res.Status),
		res.ErrorMessage,
		res.ExplorerURL,
	}
}

// Rows returns the header followed by one row per result, in result order.
func (e *Exporter) Rows(results []model.TransactionResult) [][]string {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, e.Header())

	for _, res := range results {
		rows = append(rows, e.Row(res))
	}

	return rows
}

// WriteCSV writes Rows(results) as CSV to w.
func (e *Exporter) WriteCSV(w io.Writer, results []model.TransactionResult) error {
	cw := csv.NewWriter(w)

	if err := cw.WriteAll(e.Rows(results)); err != nil {
		return errors.Wrap(err, "failed to write csv")
	}

	return nil
}
