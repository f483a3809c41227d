// Package export renders dashboard tables as PDF and Excel downloads.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Formats accepted by Write.
const (
	FormatPDF   = "pdf"
	FormatExcel = "xlsx"
)

// ErrUnknownFormat is returned for an export format other than pdf or xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

// Table is a titled grid of already formatted cells.
type Table struct {
	Title   string
	Sheet   string
	Headers []string
	Rows    [][]string
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// FileName builds "<prefix>_report_YYYY-MM-DD.<ext>".
func FileName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_report_%s.%s", strings.ToLower(prefix), now.Format("2006-01-02"), ext)
}

// Write renders t in the given format.
func Write(w io.Writer, t Table, format string) error {
	switch format {
	case FormatPDF:
		return WritePDF(w, t)
	case FormatExcel:
		return WriteExcel(w, t, t.Sheet)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WritePDF renders t as a landscape A4 document.
func WritePDF(w io.Writer, t Table) error {
	const (
		margin    = 10.0
		rowHeight = 7.0
	)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, tr(t.Title))
	pdf.Ln(12)

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*margin) / float64(max(len(t.Headers), 1))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for _, h := range t.Headers {
		pdf.CellFormat(colWidth, rowHeight, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(rowHeight)

	pdf.SetFont("Arial", "", 9)
	for i, row := range t.Rows {
		// striped body
		if i%2 == 1 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j := range t.Headers {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			pdf.CellFormat(colWidth, rowHeight, tr(cell), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

// WriteExcel renders t as a workbook with a single sheet named sheet.
func WriteExcel(w io.Writer, t Table, sheet string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	sheet = sheetName(sheet)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := setRow(f, sheet, 1, t.Headers); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// sheetName trims a title to what Excel accepts as a sheet name.
func sheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" {
		return "Sheet1"
	}
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	return s
}
