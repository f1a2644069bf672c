package model

import "strings"

// Asset is a currency or token symbol, e.g. "BTC" or "EUR".
type Asset string

// String returns the Asset as a string.
func (a Asset) String() string { return string(a) }

// ParseAsset normalizes a raw cell value into an Asset.
// Sheets sometimes annotate fiat columns as "EUR (fiat)".
func ParseAsset(s string) Asset {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.ReplaceAll(s, "(FIAT)", ""))
	return Asset(s)
}

// Classifier answers the static fiat/crypto classification per asset symbol.
// Anything not declared as fiat is treated as crypto.
type Classifier struct {
	reporting Asset
	fiat      map[Asset]bool
}

// NewClassifier creates a Classifier. The reporting currency is always fiat.
func NewClassifier(reporting Asset, fiat []Asset) *Classifier {
	m := make(map[Asset]bool, len(fiat)+1)
	m[reporting] = true
	for _, a := range fiat {
		m[a] = true
	}
	return &Classifier{reporting: reporting, fiat: m}
}

// Reporting returns the configured fiat reporting currency.
func (c *Classifier) Reporting() Asset { return c.reporting }

// IsFiat reports whether the asset is a fiat currency.
func (c *Classifier) IsFiat(a Asset) bool { return c.fiat[a] }

// IsCrypto reports whether the asset is a crypto asset.
func (c *Classifier) IsCrypto(a Asset) bool { return a != "" && !c.fiat[a] }
