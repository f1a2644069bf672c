package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fifotax/fifotax/internal/model"
)

// Lot is one open acquisition of an asset. Quantity only ever shrinks;
// UnitCost and AcquisitionDate are fixed at creation.
type Lot struct {
	Asset           model.Asset
	Quantity        decimal.Decimal // remaining, > 0 while the lot is open
	UnitCost        decimal.Decimal // fiat per unit
	AcquisitionDate time.Time
	Ordinal         int // originating transaction, for traceability
}

// CostBasis returns the fiat cost of the remaining quantity.
func (l Lot) CostBasis() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// Consumption is one lot fragment taken by a disposal.
type Consumption struct {
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	AcquisitionDate time.Time
	Ordinal         int
}

// CostBasis returns the fiat cost of the consumed fragment.
func (c Consumption) CostBasis() decimal.Decimal {
	return c.Quantity.Mul(c.UnitCost)
}
