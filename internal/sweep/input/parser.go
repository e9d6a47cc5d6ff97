// Package input turns the raw key text block into line records.
package input

import (
	"strings"
)

// Shape describes how many fields a line was split into.
type Shape int

const (
	ShapeKeyOnly Shape = iota
	ShapeKeyAmount
	ShapeUnsupported
)

// Record is one non-blank input line split into its fields. Parsing never fails,
// lines with an unsupported field count are returned with ShapeUnsupported.
type Record struct {
	Line   int
	Key    string
	Amount string
	Shape  Shape
	Fields int
}

// HasAmount reports whether the record carries a per-line amount.
func (r Record) HasAmount() bool {
	return r.Shape == ShapeKeyAmount
}

// Parse splits text into records, one per non-blank line, in input order.
func Parse(text string) []Record {
	lines := splitLines(text)
	records := make([]Record, 0, len(lines))

	for _, line := range lines {
		rec := ParseLine(line)
		rec.Line = len(records) + 1
		records = append(records, rec)
	}

	return records
}

// ParseLine splits a single line on the first separator it contains,
// trying "," then "=" then runs of whitespace.
func ParseLine(line string) Record {
	tokens := tokenize(strings.TrimSpace(line))

	switch len(tokens) {
	case 1:
		return Record{Key: tokens[0], Shape: ShapeKeyOnly, Fields: 1}
	case 2: //nolint:mnd // key and amount
		return Record{Key: tokens[0], Amount: tokens[1], Shape: ShapeKeyAmount, Fields: 2}
	default:
		rec := Record{Shape: ShapeUnsupported, Fields: len(tokens)}
		if len(tokens) > 0 {
			rec.Key = tokens[0]
		}

		return rec
	}
}

// Lines returns the trimmed non-blank lines of text. It is used for the
// target list, which carries one address per line.
func Lines(text string) []string {
	return splitLines(text)
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))

	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	return lines
}

func tokenize(line string) []string {
	var parts []string

	switch {
	case strings.Contains(line, ","):
		parts = strings.Split(line, ",")
	case strings.Contains(line, "="):
		parts = strings.Split(line, "=")
	default:
		return strings.Fields(line)
	}

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}

	return tokens
}
