package csvingest_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eposupdate/internal/csvingest"
	"eposupdate/internal/domain"
)

func TestCheckUpload(t *testing.T) {
	limits := csvingest.DefaultLimits()

	tests := []struct {
		name     string
		fileName string
		size     int64
		wantErr  error
	}{
		{"lowercase csv", "ids.csv", 100, nil},
		{"uppercase csv", "IDS.CSV", 100, nil},
		{"mixed case csv", "Epos Ids.Csv", 100, nil},
		{"exactly at size limit", "ids.csv", csvingest.DefaultMaxFileSize, nil},
		{"xlsx rejected", "ids.xlsx", 100, domain.ErrNotCSV},
		{"no extension", "ids", 100, domain.ErrNotCSV},
		{"csv in middle of name", "ids.csv.txt", 100, domain.ErrNotCSV},
		{"oversize", "ids.csv", csvingest.DefaultMaxFileSize + 1, domain.ErrFileTooLarge},
		{"extension checked before size", "ids.txt", csvingest.DefaultMaxFileSize + 1, domain.ErrNotCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := csvingest.CheckUpload(tt.fileName, tt.size, limits)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckUpload_ZeroLimitsUseDefaults(t *testing.T) {
	assert.NoError(t, csvingest.CheckUpload("ids.csv", csvingest.DefaultMaxFileSize, csvingest.Limits{}))
	assert.ErrorIs(t, csvingest.CheckUpload("ids.csv", csvingest.DefaultMaxFileSize+1, csvingest.Limits{}), domain.ErrFileTooLarge)
}

func TestReadUpload_BodyLargerThanDeclared(t *testing.T) {
	limits := csvingest.Limits{MaxFileSize: 10, MaxRows: 100}
	upload := domain.RawUpload{
		FileName: "ids.csv",
		Size:     5,
		Body:     bytes.NewReader([]byte("Id\n0123456789")),
	}

	_, err := csvingest.ReadUpload(upload, limits)

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestReadUpload_Success(t *testing.T) {
	upload := domain.RawUpload{FileName: "ids.csv", Body: strings.NewReader("Id\nabc\n")}

	text, err := csvingest.ReadUpload(upload, csvingest.DefaultLimits())

	require.NoError(t, err)
	assert.Equal(t, "Id\nabc\n", text)
}

func TestReadUpload_NilBody(t *testing.T) {
	_, err := csvingest.ReadUpload(domain.RawUpload{FileName: "ids.csv"}, csvingest.DefaultLimits())

	assert.ErrorIs(t, err, domain.ErrMissingFile)
}

func TestIngest_NormalizesAndDropsHeader(t *testing.T) {
	raw := "Id\n001D000000IqhSL\n001D000000IqhSLIAZ\nshort\n"

	ids, err := csvingest.Ingest(raw, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"001D000000IqhSLIAZ", "001D000000IqhSLIAZ", "short"}, ids)
}

func TestIngest_StripsQuotesCarriageReturnsAndExtraColumns(t *testing.T) {
	raw := "\"Id\",\"Name\"\r\n\"001D000000IqhSL\",\"Store 1\"\r\n  01t000000000001  ,extra,more\r\n\" a0B5g00000XyZ12 \"\r\n"

	ids, err := csvingest.Ingest(raw, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"001D000000IqhSLIAZ", "01t000000000001AAA", "a0B5g00000XyZ12EAF"}, ids)
}

func TestIngest_DropsEmptyFirstColumn(t *testing.T) {
	raw := "Id\n\n,ignored\n\"\"\n   \n\r\n\" \",x\n01t000000000001"

	ids, err := csvingest.Ingest(raw, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"01t000000000001AAA"}, ids)
}

func TestIngest_PreservesDuplicatesAndOrder(t *testing.T) {
	raw := "Id\nb\na\nb\nc"

	ids, err := csvingest.Ingest(raw, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "b", "c"}, ids)
}

func TestIngest_HeaderOnly(t *testing.T) {
	ids, err := csvingest.Ingest("Id", 0)

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIngest_RowLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Id")
	for i := 0; i < csvingest.DefaultMaxRows; i++ {
		sb.WriteString("\n001D000000IqhSL")
	}

	// header + 10,000 rows = 10,001 lines
	_, err := csvingest.Ingest(sb.String(), csvingest.DefaultMaxRows)
	assert.ErrorIs(t, err, domain.ErrRowLimitExceeded)

	// exactly 10,000 lines is accepted
	exact := strings.Join(csvingest.SplitRows(sb.String())[:csvingest.DefaultMaxRows], "\n")
	ids, err := csvingest.Ingest(exact, csvingest.DefaultMaxRows)
	require.NoError(t, err)
	assert.Len(t, ids, csvingest.DefaultMaxRows-1)
}

func TestIngest_TrailingNewlineCountsAsRow(t *testing.T) {
	// Three lines after splitting: header, id, and the empty tail.
	_, err := csvingest.Ingest("Id\nabc\n", 2)

	assert.ErrorIs(t, err, domain.ErrRowLimitExceeded)
}
