package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies how a transaction changes asset balances.
type Kind string

const (
	// KindBuying is a purchase of a crypto asset with fiat.
	KindBuying Kind = "Buying"
	// KindInvoice is an invoice paid in crypto, treated as fiat exchanged for the asset.
	KindInvoice Kind = "Invoice"
	// KindInterest is crypto received as interest, recorded at fair value as income.
	KindInterest Kind = "Interest"
	// KindSwap exchanges one crypto asset for another.
	KindSwap Kind = "Swap"
	// KindSelling is a disposal of a crypto asset for fiat.
	KindSelling Kind = "Selling"
)

// ParseKind maps a raw cell value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBuying, KindInvoice, KindInterest, KindSwap, KindSelling:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// Transaction is a single immutable row from a source sheet.
// Amounts are full-precision decimals; Date carries no time component.
type Transaction struct {
	Ordinal      int
	Date         time.Time
	Kind         Kind
	InputAsset   Asset
	InputAmount  decimal.Decimal
	OutputAsset  Asset
	OutputAmount decimal.Decimal
	Note         string
	Source       string // file/sheet/row context for diagnostics
}

func (t Transaction) String() string {
	return fmt.Sprintf("tx %d (%s): %s %s %s -> %s %s",
		t.Ordinal, t.Date.Format("2006-01-02"), t.Kind,
		t.InputAmount, t.InputAsset, t.OutputAmount, t.OutputAsset)
}
