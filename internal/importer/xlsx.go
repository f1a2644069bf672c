package importer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fifotax/fifotax/internal/model"
)

// XLSXParser reads transactions from a workbook sheet.
type XLSXParser struct{}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// trailingGuard is how many rows past the first empty date cell must also
// be empty. Catches sheets with stray data below an accidental gap.
const trailingGuard = 3

// Parse reads the configured sheet from StartRow until the first row with
// an empty date cell. Dates within one sheet must not decrease.
func (p *XLSXParser) Parse(src Source) ([]model.Transaction, error) {
	f, err := excelize.OpenFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", src.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(src.Sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q in %s: %w", src.Sheet, src.Path, err)
	}

	fileName := filepath.Base(src.Path)
	start := src.StartRow
	if start < 1 {
		start = 1
	}

	var txs []model.Transaction
	var prevDate time.Time
	stopped := len(rows) + 1

	for i := start - 1; i < len(rows); i++ {
		row := rows[i]
		if dateCell(row) == "" {
			stopped = i + 1
			break
		}

		context := fmt.Sprintf("file %q, sheet %q, row %d", fileName, src.Sheet, i+1)
		tx, err := parseXLSXRow(row, context)
		if err != nil {
			return nil, err
		}

		if tx.Date.Before(prevDate) {
			return nil, fmt.Errorf("%s: date %s is earlier than the previous row's %s",
				context, tx.Date.Format("2006-01-02"), prevDate.Format("2006-01-02"))
		}
		prevDate = tx.Date
		txs = append(txs, tx)
	}

	// Rows right after the stop point must be empty too, otherwise the
	// gap was accidental and data below it would be silently dropped.
	for i := stopped; i < len(rows) && i < stopped+trailingGuard; i++ {
		if dateCell(rows[i]) != "" {
			return nil, fmt.Errorf("file %q, sheet %q, row %d: non-empty row after the first empty date cell",
				fileName, src.Sheet, i+1)
		}
	}

	return txs, nil
}

func dateCell(row []string) string {
	if len(row) <= colDate {
		return ""
	}
	return strings.TrimSpace(row[colDate])
}

// parseXLSXRow handles the cell formats excelize surfaces: dates may come
// through as display strings or as raw serial numbers.
func parseXLSXRow(row []string, context string) (model.Transaction, error) {
	cells := make([]string, numColumns)
	copy(cells, row)

	if serial, err := strconv.ParseFloat(strings.TrimSpace(cells[colDate]), 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("%s: converting date serial %s: %w", context, cells[colDate], err)
		}
		cells[colDate] = t.Format("2006-01-02")
	}

	return parseRow(cells, context)
}
