package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fifotax/fifotax/internal/model"
)

// CSVParser reads transactions from a CSV export with the same column
// layout as the workbook sheets (header row expected).
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads all rows after the header. Dates within one file must not
// decrease.
func (p *CSVParser) Parse(src Source) ([]model.Transaction, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src.Path, err)
	}
	defer f.Close()

	txs, err := p.parse(f, filepath.Base(src.Path))
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (p *CSVParser) parse(r io.Reader, fileName string) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // a trailing extra-info column is tolerated

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var txs []model.Transaction
	var prevDate time.Time
	for i, rec := range records[1:] {
		context := fmt.Sprintf("file %q, row %d", fileName, i+2)
		tx, err := parseRow(rec, context)
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
	return txs, nil
}
