package report

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// YearlySummary totals realized results for one calendar year.
type YearlySummary struct {
	Year           int
	SellIncome     decimal.Decimal // disposal proceeds
	InterestIncome decimal.Decimal // fair value of interest received
	Expense        decimal.Decimal // cost basis consumed by disposals
}

// Profit returns sell income plus interest income minus expense.
func (y YearlySummary) Profit() decimal.Decimal {
	return y.SellIncome.Add(y.InterestIncome).Sub(y.Expense)
}

func (y YearlySummary) String() string {
	return fmt.Sprintf("year %d: sell income %s, interest income %s, expense %s, profit %s",
		y.Year, y.SellIncome.StringFixed(2), y.InterestIncome.StringFixed(2),
		y.Expense.StringFixed(2), y.Profit().StringFixed(2))
}

// Summarize aggregates finalized rows into per-year totals, oldest first.
func Summarize(rows []Row) []YearlySummary {
	byYear := lo.GroupBy(rows, func(row Row) int {
		switch row.Type {
		case RowDisposal:
			return row.Disposal.Date.Year()
		case RowIncome:
			return row.Income.Date.Year()
		}
		return 0
	})

	summaries := lo.MapToSlice(byYear, func(year int, rows []Row) YearlySummary {
		s := YearlySummary{
			Year:           year,
			SellIncome:     decimal.Zero,
			InterestIncome: decimal.Zero,
			Expense:        decimal.Zero,
		}
		for _, row := range rows {
			switch row.Type {
			case RowDisposal:
				s.SellIncome = s.SellIncome.Add(row.Disposal.Proceeds)
				s.Expense = s.Expense.Add(row.Disposal.CostBasis)
			case RowIncome:
				s.InterestIncome = s.InterestIncome.Add(row.Income.Value)
			}
		}
		return s
	})

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Year < summaries[j].Year })
	return summaries
}
