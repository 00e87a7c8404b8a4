// Package xlsxreport renders invalid record ids into a single-sheet Excel
// workbook.
package xlsxreport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"eposupdate/internal/domain"
)

const (
	// Header is the only header cell of the report.
	Header = "Invalid IDs"

	DefaultFileName  = "EPOS_Invalid_IDs_Report"
	DefaultSheetName = "Issues"

	idColumnWidth = 24
)

// Writer renders invalid id reports.
type Writer struct {
	fileName  string
	sheetName string
}

// NewWriter creates a Writer. Blank names fall back to the defaults.
func NewWriter(fileName, sheetName string) *Writer {
	fileName = SanitizeFilename(fileName)
	if fileName == "" {
		fileName = DefaultFileName
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &Writer{fileName: fileName + ".xlsx", sheetName: sheetName}
}

// FileName returns the report file name including extension.
func (w *Writer) FileName() string {
	return w.fileName
}

// SheetName returns the name of the report sheet.
func (w *Writer) SheetName() string {
	return w.sheetName
}

// Render builds the workbook: a header row followed by one id per row, in
// the order given.
func (w *Writer) Render(ids []string) (*domain.ReportArtifact, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptyReport
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	sw, err := f.NewStreamWriter(w.sheetName)
	if err != nil {
		return nil, fmt.Errorf("opening stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, 1, idColumnWidth); err != nil {
		return nil, fmt.Errorf("setting column width: %w", err)
	}
	if err := sw.SetRow("A1", []interface{}{excelize.Cell{StyleID: headerStyle, Value: Header}}); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i, id := range ids {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, []interface{}{id}); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flushing rows: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}

	return &domain.ReportArtifact{
		FileName:    w.fileName,
		ContentType: domain.ContentTypeXLSX,
		Rows:        len(ids) + 1,
		Data:        buf.Bytes(),
	}, nil
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a report base name for use in storage keys and
// Content-Disposition. Replaces non-alphanumeric chars (except - _) with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".xlsx")
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
