// Package invoice renders a billing period into documents.
package invoice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for an output format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an invoice output format.
type Format string

const (
	// FormatLaTeX is a standalone LaTeX article.
	FormatLaTeX Format = "latex"
	// FormatPDF is the LaTeX document compiled by an external engine.
	FormatPDF Format = "pdf"
	// FormatCSV is one comma-separated row per session.
	FormatCSV Format = "csv"
	// FormatTable is a column-aligned text table.
	FormatTable Format = "table"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Formats lists the accepted format names.
func Formats() []Format {
	return []Format{FormatLaTeX, FormatPDF, FormatCSV, FormatTable}
}

// ParseFormat resolves a format name, accepting document and tabular as
// aliases for latex and csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latex", "tex", "document":
		return FormatLaTeX, nil
	case "pdf":
		return FormatPDF, nil
	case "csv", "tabular":
		return FormatCSV, nil
	case "table", "text":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: %q (want latex, pdf, csv or table)", ErrUnknownFormat, s)
	}
}

// Header carries the parties printed at the top of a LaTeX invoice.
type Header struct {
	Name   string
	Client string
}
