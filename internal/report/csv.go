package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// Header is the CSV header for the report output file.
const Header = "type,ordinal,date,kind,asset,quantity,proceeds,cost_basis,gain,acquired_from,acquired_to"

const (
	numFields   = 11
	dateFormat  = "2006-01-02"
	colType     = 0
	colOrdinal  = 1
	colDate     = 2
	colKind     = 3
	colAsset    = 4
	colQuantity = 5
	colProceeds = 6
	colBasis    = 7
	colGain     = 8
	colAcqFrom  = 9
	colAcqTo    = 10
)

// WriteCSV serializes the finalized rows. Fiat values are rounded to two
// decimal places here and nowhere earlier; quantities keep full precision.
func WriteCSV(w io.Writer, rows []Row, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(marshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalRow(row Row) []string {
	rec := make([]string, numFields)
	rec[colType] = string(row.Type)

	switch row.Type {
	case RowDisposal:
		d := row.Disposal
		rec[colOrdinal] = fmt.Sprintf("%d", d.Ordinal)
		rec[colDate] = d.Date.Format(dateFormat)
		rec[colKind] = string(d.Kind)
		rec[colAsset] = d.Asset.String()
		rec[colQuantity] = d.Quantity.String()
		rec[colProceeds] = d.Proceeds.StringFixed(2)
		rec[colBasis] = d.CostBasis.StringFixed(2)
		rec[colGain] = d.Gain.StringFixed(2)
		rec[colAcqFrom] = formatDate(d.AcquiredFrom)
		rec[colAcqTo] = formatDate(d.AcquiredTo)
	case RowIncome:
		in := row.Income
		rec[colOrdinal] = fmt.Sprintf("%d", in.Ordinal)
		rec[colDate] = in.Date.Format(dateFormat)
		rec[colKind] = "Interest"
		rec[colAsset] = in.Asset.String()
		rec[colQuantity] = in.Quantity.String()
		rec[colProceeds] = in.Value.StringFixed(2)
	}
	return rec
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}
