package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fifotax/fifotax/internal/model"
)

// InsufficientBalanceError reports a disposal that exceeds the open lots
// of an asset. It is fatal for the run; the ledger is left unchanged.
type InsufficientBalanceError struct {
	Asset     model.Asset
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: requested %s, available %s",
		e.Asset, e.Requested, e.Available)
}

// Ledger is the FIFO queue of open lots for a single asset, ordered by
// acquisition date, ties broken by ascending source ordinal.
type Ledger struct {
	asset model.Asset
	lots  []Lot
}

// New creates an empty Ledger for an asset.
func New(asset model.Asset) *Ledger {
	return &Ledger{asset: asset}
}

// Asset returns the asset this ledger tracks.
func (l *Ledger) Asset() model.Asset { return l.asset }

// Len returns the number of open lots.
func (l *Ledger) Len() int { return len(l.lots) }

// Lots returns a copy of the open lots in FIFO order.
func (l *Ledger) Lots() []Lot {
	out := make([]Lot, len(l.lots))
	copy(out, l.lots)
	return out
}

// Balance returns the sum of remaining lot quantities.
func (l *Ledger) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

// Append inserts a new lot, keeping the queue sorted by acquisition date
// then ordinal. Sources may be merged out of order, so the insertion
// position is determined by comparison, not by append order.
// Quantity and unit cost must be positive (pre-validated upstream).
func (l *Ledger) Append(quantity, unitCost decimal.Decimal, date time.Time, ordinal int) {
	lot := Lot{
		Asset:           l.asset,
		Quantity:        quantity,
		UnitCost:        unitCost,
		AcquisitionDate: date,
		Ordinal:         ordinal,
	}

	i := len(l.lots)
	for i > 0 {
		prev := l.lots[i-1]
		if prev.AcquisitionDate.Before(date) {
			break
		}
		if prev.AcquisitionDate.Equal(date) && prev.Ordinal <= ordinal {
			break
		}
		i--
	}

	l.lots = append(l.lots, Lot{})
	copy(l.lots[i+1:], l.lots[i:])
	l.lots[i] = lot
}

// Consume removes quantity units from the front of the queue in strict
// FIFO order, splitting the last touched lot if it holds more than
// needed. It returns the consumed fragments in order and their total
// cost basis. On InsufficientBalanceError no lot is modified.
func (l *Ledger) Consume(quantity decimal.Decimal) ([]Consumption, decimal.Decimal, error) {
	available := l.Balance()
	if quantity.GreaterThan(available) {
		return nil, decimal.Zero, InsufficientBalanceError{
			Asset:     l.asset,
			Requested: quantity,
			Available: available,
		}
	}

	var consumed []Consumption
	totalCost := decimal.Zero
	remaining := quantity

	for len(l.lots) > 0 && remaining.IsPositive() {
		lot := &l.lots[0]

		take := lot.Quantity
		if take.GreaterThan(remaining) {
			take = remaining
		}

		c := Consumption{
			Quantity:        take,
			UnitCost:        lot.UnitCost,
			AcquisitionDate: lot.AcquisitionDate,
			Ordinal:         lot.Ordinal,
		}
		consumed = append(consumed, c)
		totalCost = totalCost.Add(c.CostBasis())
		remaining = remaining.Sub(take)

		lot.Quantity = lot.Quantity.Sub(take)
		if lot.Quantity.IsZero() {
			l.lots = l.lots[1:]
		}
	}

	return consumed, totalCost, nil
}

// Book holds one Ledger per asset, created lazily.
type Book struct {
	ledgers map[model.Asset]*Ledger
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{ledgers: make(map[model.Asset]*Ledger)}
}

// Ledger returns the ledger for an asset, creating it if needed.
func (b *Book) Ledger(asset model.Asset) *Ledger {
	l, ok := b.ledgers[asset]
	if !ok {
		l = New(asset)
		b.ledgers[asset] = l
	}
	return l
}

// Balance returns the current holdings of an asset, zero if untracked.
func (b *Book) Balance(asset model.Asset) decimal.Decimal {
	if l, ok := b.ledgers[asset]; ok {
		return l.Balance()
	}
	return decimal.Zero
}

// Assets returns the assets with at least one open lot.
func (b *Book) Assets() []model.Asset {
	var out []model.Asset
	for asset, l := range b.ledgers {
		if l.Len() > 0 {
			out = append(out, asset)
		}
	}
	return out
}
