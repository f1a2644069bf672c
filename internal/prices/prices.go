package prices

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fifotax/fifotax/internal/model"
)

// MissingPriceError reports a swap output that has no price entry for
// its transaction date.
type MissingPriceError struct {
	Asset model.Asset
	Date  time.Time
}

func (e MissingPriceError) Error() string {
	return fmt.Sprintf("no price for %s on %s", e.Asset, e.Date.Format("2006-01-02"))
}

// Entry is one row in the price file.
type Entry struct {
	Asset string `yaml:"asset"`
	Date  string `yaml:"date"` // "2006-01-02"
	Price string `yaml:"price"`
}

type priceFile struct {
	Prices []Entry `yaml:"prices"`
}

type key struct {
	asset model.Asset
	date  time.Time
}

// Table resolves fiat-equivalent prices per asset and date. Prices are
// loaded once from a YAML file; no dynamic lookups.
type Table struct {
	prices map[key]decimal.Decimal
}

// Load reads a price table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading price file: %w", err)
	}

	var pf priceFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing price file: %w", err)
	}

	t := &Table{prices: make(map[key]decimal.Decimal, len(pf.Prices))}
	for i, e := range pf.Prices {
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return nil, fmt.Errorf("price entry %d: parsing date %q: %w", i+1, e.Date, err)
		}
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("price entry %d: parsing price %q: %w", i+1, e.Price, err)
		}
		k := key{asset: model.ParseAsset(e.Asset), date: date}
		if _, dup := t.prices[k]; dup {
			return nil, fmt.Errorf("price entry %d: duplicate price for %s on %s", i+1, e.Asset, e.Date)
		}
		t.prices[k] = price
	}
	return t, nil
}

// NewTable builds a Table from already-parsed prices. Used in tests and
// by callers that resolve prices elsewhere.
func NewTable(entries map[model.Asset]map[time.Time]decimal.Decimal) *Table {
	t := &Table{prices: make(map[key]decimal.Decimal)}
	for asset, byDate := range entries {
		for date, price := range byDate {
			t.prices[key{asset: asset, date: date}] = price
		}
	}
	return t
}

// Value returns the unit price of asset on date.
func (t *Table) Value(asset model.Asset, date time.Time) (decimal.Decimal, error) {
	if p, ok := t.prices[key{asset: asset, date: date}]; ok {
		return p, nil
	}
	return decimal.Zero, MissingPriceError{Asset: asset, Date: date}
}

// MissingPrices scans swap transactions whose output is crypto and
// collects the ones without a price entry. The run aborts before the
// engine starts when any are missing.
func (t *Table) MissingPrices(txs []model.Transaction, c *model.Classifier) []MissingPriceError {
	var missing []MissingPriceError
	seen := make(map[key]bool)

	for _, tx := range txs {
		if tx.Kind != model.KindSwap || !c.IsCrypto(tx.OutputAsset) {
			continue
		}
		k := key{asset: tx.OutputAsset, date: tx.Date}
		if seen[k] {
			continue
		}
		seen[k] = true
		if _, ok := t.prices[k]; !ok {
			missing = append(missing, MissingPriceError{Asset: tx.OutputAsset, Date: tx.Date})
		}
	}
	return missing
}
