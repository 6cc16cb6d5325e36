package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// =============================================================================
// CSV
// =============================================================================

// WriteCSV writes one summary line per row. With splitColons each line is
// split on ':' into separate columns ("Hire Date", "01 January 2015"),
// otherwise the whole line is a single column.
func WriteCSV(w io.Writer, summary string, splitColons bool) error {
	cw := csv.NewWriter(w)
	for _, line := range lines(summary) {
		record := []string{line}
		if splitColons && strings.Contains(line, ":") {
			record = strings.Split(line, ":")
			for i := range record {
				record[i] = strings.TrimSpace(record[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// =============================================================================
// PDF
// =============================================================================

const (
	pdfMargin     = 15.0
	pdfLineHeight = 5.0
	pdfFontSize   = 10.0
)

// WritePDF renders the summary on A4 pages in a fixed-width font, one
// summary line per text line, starting a new page when the current one is
// full.
func WritePDF(w io.Writer, summary string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("Annual Leave Summary", true)
	pdf.AddPage()
	pdf.SetFont("Courier", "", pdfFontSize)

	// Core fonts are cp1252; translate the UTF-8 summary ("×", "’").
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range lines(summary) {
		pdf.CellFormat(0, pdfLineHeight, tr(line), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func lines(summary string) []string {
	return strings.Split(strings.TrimSpace(summary), "\n")
}
