package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fifotax/fifotax/internal/model"
)

// Source describes one configured transaction sheet.
type Source struct {
	Path     string
	Sheet    string // XLSX only
	StartRow int    // 1-based first data row
	Format   string // "xlsx" or "csv"; inferred from the extension when empty
}

// Parser converts one Source into transactions.
type Parser interface {
	Parse(src Source) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXParser{})
	r.Register(&CSVParser{})
	return r
}

// ParseAll parses every source and merges the batches into one stream,
// globally sorted by date with ordinal as tie-break. Source order does
// not matter.
func (r *Registry) ParseAll(sources []Source) ([]model.Transaction, error) {
	var batches [][]model.Transaction
	for _, src := range sources {
		format := src.Format
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(src.Path)), ".")
		}
		p := r.Get(format)
		if p == nil {
			return nil, fmt.Errorf("no parser for format %q (source %s)", format, src.Path)
		}
		txs, err := p.Parse(src)
		if err != nil {
			return nil, err
		}
		batches = append(batches, txs)
	}
	return Merge(batches), nil
}

// Merge flattens batches and sorts by date, ties broken by ordinal.
func Merge(batches [][]model.Transaction) []model.Transaction {
	var merged []model.Transaction
	for _, b := range batches {
		merged = append(merged, b...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Ordinal < merged[j].Ordinal
		}
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}

// Shared row layout for both sheet formats.
const (
	numColumns   = 8
	colOrdinal   = 0
	colDate      = 1
	colKind      = 2
	colInAsset   = 3
	colInAmount  = 4
	colOutAsset  = 5
	colOutAmount = 6
	colNote      = 7
)

// dateLayouts are the date formats accepted in source cells.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Normalize away any time component.
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

// parseRow converts one raw row into a Transaction. Each row is checked
// on its own; stream-level rules run later against the merged sequence.
func parseRow(cells []string, context string) (model.Transaction, error) {
	if len(cells) < numColumns {
		return model.Transaction{}, fmt.Errorf("%s: expected at least %d columns, got %d", context, numColumns, len(cells))
	}

	ordinal, err := parseOrdinal(cells[colOrdinal])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%s: %w", context, err)
	}

	date, err := parseDate(cells[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%s: %w", context, err)
	}

	kind, err := model.ParseKind(strings.TrimSpace(cells[colKind]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%s: %w", context, err)
	}

	inAmount, err := parseAmount(cells[colInAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%s: input amount: %w", context, err)
	}

	outAmount, err := parseAmount(cells[colOutAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%s: output amount: %w", context, err)
	}

	return model.Transaction{
		Ordinal:      ordinal,
		Date:         date,
		Kind:         kind,
		InputAsset:   model.ParseAsset(cells[colInAsset]),
		InputAmount:  inAmount,
		OutputAsset:  model.ParseAsset(cells[colOutAsset]),
		OutputAmount: outAmount,
		Note:         strings.TrimSpace(cells[colNote]),
		Source:       context,
	}, nil
}

func parseOrdinal(s string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("ordinal %q is not a number", s)
	}
	if !d.IsInteger() || !d.IsPositive() {
		return 0, fmt.Errorf("ordinal %q is not a positive integer", s)
	}
	return int(d.IntPart()), nil
}
