package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fifotax/fifotax/internal/model"
)

// DisposalRecord is the realized result of one disposal transaction.
// One disposal yields exactly one record, even when it spans several lots.
type DisposalRecord struct {
	Ordinal      int
	Date         time.Time
	Kind         model.Kind // Selling or Swap, for display only
	Asset        model.Asset
	Quantity     decimal.Decimal
	Proceeds     decimal.Decimal
	CostBasis    decimal.Decimal
	Gain         decimal.Decimal // Proceeds - CostBasis
	AcquiredFrom time.Time       // oldest matched lot
	AcquiredTo   time.Time       // newest matched lot
}

// IncomeRecord is taxable income from an Interest transaction.
type IncomeRecord struct {
	Ordinal  int
	Date     time.Time
	Asset    model.Asset
	Quantity decimal.Decimal
	Value    decimal.Decimal // fiat value recognized as income
}

// RowType tags a finalized report row.
type RowType string

const (
	RowDisposal RowType = "disposal"
	RowIncome   RowType = "income"
)

// Row is one finalized output row, either a disposal or an income event.
type Row struct {
	Type     RowType
	Disposal *DisposalRecord
	Income   *IncomeRecord
}

// Report accumulates records in the order the engine emits them,
// which is already date-ordered. Pure aggregation, no computation.
type Report struct {
	rows []Row
}

// New creates an empty Report.
func New() *Report {
	return &Report{}
}

// AddDisposal appends a disposal record.
func (r *Report) AddDisposal(d DisposalRecord) {
	r.rows = append(r.rows, Row{Type: RowDisposal, Disposal: &d})
}

// AddIncome appends an income record.
func (r *Report) AddIncome(in IncomeRecord) {
	r.rows = append(r.rows, Row{Type: RowIncome, Income: &in})
}

// Finalize returns the rows in emission order.
func (r *Report) Finalize() []Row {
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// Len returns the number of accumulated rows.
func (r *Report) Len() int { return len(r.rows) }
