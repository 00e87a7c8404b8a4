// Package csvingest turns an uploaded CSV of record ids into a normalized
// id list. The expected layout is a header row followed by one id per row
// in the first column; any further columns are ignored.
package csvingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"eposupdate/internal/domain"
	"eposupdate/internal/recordid"
)

const (
	// DefaultMaxFileSize is the largest accepted upload in bytes.
	DefaultMaxFileSize int64 = 1_500_000
	// DefaultMaxRows is the largest accepted line count, header included.
	DefaultMaxRows = 10_000
)

// Limits bounds what an upload may contain.
type Limits struct {
	MaxFileSize int64
	MaxRows     int
}

// DefaultLimits returns the stock upload ceilings.
func DefaultLimits() Limits {
	return Limits{MaxFileSize: DefaultMaxFileSize, MaxRows: DefaultMaxRows}
}

func (l Limits) withDefaults() Limits {
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = DefaultMaxFileSize
	}
	if l.MaxRows <= 0 {
		l.MaxRows = DefaultMaxRows
	}
	return l
}

// CheckUpload validates the declared name and size of an upload. It never
// touches the content.
func CheckUpload(name string, size int64, limits Limits) error {
	limits = limits.withDefaults()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext != domain.CSVExtension {
		return domain.ErrNotCSV
	}
	if size > limits.MaxFileSize {
		return domain.ErrFileTooLarge
	}
	return nil
}

// ReadUpload reads the upload body as text. The declared size is not
// trusted: a body longer than the limit fails with ErrFileTooLarge.
func ReadUpload(u domain.RawUpload, limits Limits) (string, error) {
	limits = limits.withDefaults()
	if u.Body == nil {
		return "", domain.ErrMissingFile
	}

	data, err := io.ReadAll(io.LimitReader(u.Body, limits.MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > limits.MaxFileSize {
		return "", domain.ErrFileTooLarge
	}
	return string(data), nil
}

// SplitRows splits raw text into lines on line feeds.
func SplitRows(raw string) []string {
	return strings.Split(raw, "\n")
}

// CheckRows fails with ErrRowLimitExceeded when rows exceed maxRows.
func CheckRows(rows []string, maxRows int) error {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if len(rows) > maxRows {
		return fmt.Errorf("%w: %d rows, limit %d", domain.ErrRowLimitExceeded, len(rows), maxRows)
	}
	return nil
}

// Ingest parses raw CSV text into normalized record ids, in file order with
// duplicates kept. Rows whose first column is blank are skipped.
func Ingest(raw string, maxRows int) ([]string, error) {
	rows := SplitRows(raw)
	if err := CheckRows(rows, maxRows); err != nil {
		return nil, err
	}
	return ExtractIDs(rows), nil
}

// ExtractIDs drops the header row and returns the normalized first-column
// id of every remaining row.
func ExtractIDs(rows []string) []string {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id := firstColumn(row)
		if id == "" {
			continue
		}
		ids = append(ids, recordid.Normalize(id))
	}
	return ids
}

// firstColumn returns the cleaned first comma-separated field of row.
func firstColumn(row string) string {
	field, _, _ := strings.Cut(row, ",")
	field = strings.ReplaceAll(field, "\r", "")
	field = strings.TrimSpace(field)
	field = strings.Trim(field, `"`)
	return strings.TrimSpace(field)
}
