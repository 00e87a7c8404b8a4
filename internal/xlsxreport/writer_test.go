package xlsxreport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"eposupdate/internal/domain"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestRender_HeaderAndRowsInOrder(t *testing.T) {
	w := NewWriter("", "")
	ids := []string{"001D000000IqhSLIAZ", "bogus", "001D000000IqhSLIAZ"}

	art, err := w.Render(ids)
	require.NoError(t, err)

	assert.Equal(t, "EPOS_Invalid_IDs_Report.xlsx", art.FileName)
	assert.Equal(t, domain.ContentTypeXLSX, art.ContentType)
	assert.Equal(t, 4, art.Rows)
	assert.Empty(t, art.DownloadURL)

	rows := readRows(t, art.Data, DefaultSheetName)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{Header}, rows[0])
	assert.Equal(t, []string{"001D000000IqhSLIAZ"}, rows[1])
	assert.Equal(t, []string{"bogus"}, rows[2])
	assert.Equal(t, []string{"001D000000IqhSLIAZ"}, rows[3])
}

func TestRender_CustomNames(t *testing.T) {
	w := NewWriter("Store Ids / Failed", "Bad Ids")

	art, err := w.Render([]string{"x"})
	require.NoError(t, err)

	assert.Equal(t, "Store_Ids_Failed.xlsx", art.FileName)
	rows := readRows(t, art.Data, "Bad Ids")
	assert.Len(t, rows, 2)
}

func TestRender_Empty(t *testing.T) {
	art, err := NewWriter("", "").Render(nil)

	assert.Nil(t, art)
	assert.ErrorIs(t, err, domain.ErrEmptyReport)
}

func TestRender_LargeReport(t *testing.T) {
	ids := make([]string, 9999)
	for i := range ids {
		ids[i] = "id" + strings.Repeat("x", i%10)
	}

	art, err := NewWriter("", "").Render(ids)
	require.NoError(t, err)

	assert.Equal(t, 10000, art.Rows)
	rows := readRows(t, art.Data, DefaultSheetName)
	assert.Len(t, rows, 10000)
	assert.Equal(t, ids[9998], rows[9999][0])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"default name untouched", "EPOS_Invalid_IDs_Report", "EPOS_Invalid_IDs_Report"},
		{"extension stripped", "report.xlsx", "report"},
		{"special chars", "EPOS / Q3 (Oct–Dec)", "EPOS_Q3_Oct_Dec"},
		{"consecutive underscores collapsed", "a___b", "a_b"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{"long name truncated", strings.Repeat("a", 120), strings.Repeat("a", 100)},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}
