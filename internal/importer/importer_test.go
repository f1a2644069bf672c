package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fifotax/fifotax/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func decEq(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const csvHeader = "ordinal,date,kind,input_asset,input_amount,output_asset,output_amount,note\n"

func TestCSVParse(t *testing.T) {
	path := writeCSV(t, "txs.csv", csvHeader+
		"1,2023-01-01,Buying,EUR,20000,BTC,1,first buy\n"+
		"2,2023-06-01,Swap,BTC,0.5,ETH,8,\n")

	txs, err := (&CSVParser{}).Parse(Source{Path: path})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, 1, txs[0].Ordinal)
	assert.Equal(t, date(2023, 1, 1), txs[0].Date)
	assert.Equal(t, model.KindBuying, txs[0].Kind)
	assert.Equal(t, model.Asset("EUR"), txs[0].InputAsset)
	assert.Equal(t, model.Asset("BTC"), txs[0].OutputAsset)
	assert.Equal(t, "first buy", txs[0].Note)
	assert.Contains(t, txs[0].Source, "row 2")

	assert.Equal(t, model.KindSwap, txs[1].Kind)
	assert.True(t, txs[1].InputAmount.Equal(decEq("0.5")))
}

func TestCSVParseDottedDates(t *testing.T) {
	path := writeCSV(t, "txs.csv", csvHeader+
		"1,01.03.2023,Buying,EUR,100,BTC,0.01,\n")

	txs, err := (&CSVParser{}).Parse(Source{Path: path})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, date(2023, 3, 1), txs[0].Date)
}

func TestCSVParseRejectsDecreasingDates(t *testing.T) {
	path := writeCSV(t, "txs.csv", csvHeader+
		"1,2023-06-01,Buying,EUR,100,BTC,0.01,\n"+
		"2,2023-01-01,Buying,EUR,100,BTC,0.01,\n")

	_, err := (&CSVParser{}).Parse(Source{Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "earlier than")
}

func TestCSVParseBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad ordinal", "x,2023-01-01,Buying,EUR,100,BTC,0.01,\n"},
		{"zero ordinal", "0,2023-01-01,Buying,EUR,100,BTC,0.01,\n"},
		{"bad date", "1,yesterday,Buying,EUR,100,BTC,0.01,\n"},
		{"bad kind", "1,2023-01-01,Gift,EUR,100,BTC,0.01,\n"},
		{"bad amount", "1,2023-01-01,Buying,EUR,many,BTC,0.01,\n"},
		{"empty amount", "1,2023-01-01,Buying,EUR,,BTC,0.01,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, "txs.csv", csvHeader+tt.row)
			_, err := (&CSVParser{}).Parse(Source{Path: path})
			require.Error(t, err)
		})
	}
}

func TestXLSXParse(t *testing.T) {
	f := excelize.NewFile()
	const sheet = "Transactions"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)

	rows := [][]interface{}{
		{"ordinal", "date", "kind", "in", "in amount", "out", "out amount", "note"},
		{1, "2023-01-01", "Buying", "EUR", "20000", "BTC", "1", "first"},
		{2, "2023-06-01", "Selling", "BTC", "0.5", "EUR", "16000", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	txs, err := (&XLSXParser{}).Parse(Source{Path: path, Sheet: sheet, StartRow: 2})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, 1, txs[0].Ordinal)
	assert.Equal(t, model.KindBuying, txs[0].Kind)
	assert.Equal(t, date(2023, 1, 1), txs[0].Date)
	assert.Contains(t, txs[0].Source, "book.xlsx")
	assert.Contains(t, txs[0].Source, sheet)

	assert.Equal(t, model.KindSelling, txs[1].Kind)
	assert.True(t, txs[1].OutputAmount.Equal(decEq("16000")))
}

func TestXLSXParseStopsAtEmptyDate(t *testing.T) {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	rows := [][]interface{}{
		{"ordinal", "date", "kind", "in", "in amount", "out", "out amount", "note"},
		{1, "2023-01-01", "Buying", "EUR", "100", "BTC", "0.01", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	txs, err := (&XLSXParser{}).Parse(Source{Path: path, Sheet: sheet, StartRow: 2})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestXLSXParseRejectsDataAfterGap(t *testing.T) {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	rows := map[int][]interface{}{
		1: {"ordinal", "date", "kind", "in", "in amount", "out", "out amount", "note"},
		2: {1, "2023-01-01", "Buying", "EUR", "100", "BTC", "0.01", ""},
		// Row 3 is the gap; row 4 still holds data.
		4: {2, "2023-02-01", "Buying", "EUR", "100", "BTC", "0.01", ""},
	}
	for rowNum, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := (&XLSXParser{}).Parse(Source{Path: path, Sheet: sheet, StartRow: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-empty row")
}

func TestXLSXParseMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := (&XLSXParser{}).Parse(Source{Path: path, Sheet: "Nope", StartRow: 2})
	require.Error(t, err)
}

func TestMergeSortsAcrossSources(t *testing.T) {
	a := []model.Transaction{
		{Ordinal: 1, Date: date(2023, 6, 1)},
		{Ordinal: 2, Date: date(2023, 8, 1)},
	}
	b := []model.Transaction{
		{Ordinal: 1, Date: date(2023, 1, 1)},
		{Ordinal: 3, Date: date(2023, 6, 1)},
	}

	merged := Merge([][]model.Transaction{a, b})
	require.Len(t, merged, 4)
	assert.Equal(t, date(2023, 1, 1), merged[0].Date)
	// Same date: ordinal breaks the tie.
	assert.Equal(t, date(2023, 6, 1), merged[1].Date)
	assert.Equal(t, 1, merged[1].Ordinal)
	assert.Equal(t, 3, merged[2].Ordinal)
	assert.Equal(t, date(2023, 8, 1), merged[3].Date)
}

func TestParseAllInfersFormatFromExtension(t *testing.T) {
	path := writeCSV(t, "txs.csv", csvHeader+
		"1,2023-01-01,Buying,EUR,100,BTC,0.01,\n")

	txs, err := DefaultRegistry().ParseAll([]Source{{Path: path}})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestParseAllUnknownFormat(t *testing.T) {
	_, err := DefaultRegistry().ParseAll([]Source{{Path: "txs.parquet"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser")
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVParser{})
	assert.Panics(t, func() { r.Register(&CSVParser{}) })
}
