package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fifotax/fifotax/internal/ledger"
	"github.com/fifotax/fifotax/internal/model"
	"github.com/fifotax/fifotax/internal/report"
)

// Valuer resolves the fiat-equivalent unit price of a crypto asset on a
// date. Swap proceeds for crypto outputs come from here; the engine does
// no price lookups of its own.
type Valuer interface {
	Value(asset model.Asset, date time.Time) (decimal.Decimal, error)
}

// SequenceError reports a transaction dated earlier than its predecessor
// in the merged stream. Fatal for the run.
type SequenceError struct {
	Ordinal  int
	Source   string
	Date     time.Time
	PrevDate time.Time
}

func (e SequenceError) Error() string {
	return fmt.Sprintf("transaction %d (%s) dated %s is earlier than previous transaction date %s",
		e.Ordinal, e.Source, e.Date.Format("2006-01-02"), e.PrevDate.Format("2006-01-02"))
}

// Engine walks the merged, date-sorted transaction stream and drives the
// lot book. All state is scoped to one Run call.
type Engine struct {
	classifier *model.Classifier
	valuer     Valuer
}

// New creates an Engine.
func New(classifier *model.Classifier, valuer Valuer) *Engine {
	return &Engine{classifier: classifier, valuer: valuer}
}

// Run processes the stream and returns the finished report. Any
// validation, sequence, balance, or valuation failure aborts the run
// with no partial result.
func (e *Engine) Run(txs []model.Transaction) (*report.Report, error) {
	book := ledger.NewBook()
	rep := report.New()

	var prevDate time.Time
	for _, tx := range txs {
		if !prevDate.IsZero() && tx.Date.Before(prevDate) {
			return nil, SequenceError{
				Ordinal:  tx.Ordinal,
				Source:   tx.Source,
				Date:     tx.Date,
				PrevDate: prevDate,
			}
		}
		prevDate = tx.Date

		var err error
		switch tx.Kind {
		case model.KindBuying, model.KindInvoice, model.KindInterest:
			err = e.processInflow(book, rep, tx)
		case model.KindSwap, model.KindSelling:
			err = e.processDisposal(book, rep, tx)
		default:
			err = model.ValidationError{Ordinal: tx.Ordinal, Source: tx.Source, Reason: "unknown kind " + string(tx.Kind)}
		}
		if err != nil {
			return nil, fmt.Errorf("processing %s: %w", tx, err)
		}
	}

	return rep, nil
}

// processInflow opens a new lot for the acquired crypto. Interest is
// additionally recognized as income at its fair value.
func (e *Engine) processInflow(book *ledger.Book, rep *report.Report, tx model.Transaction) error {
	unitCost := tx.InputAmount.Div(tx.OutputAmount)
	book.Ledger(tx.OutputAsset).Append(tx.OutputAmount, unitCost, tx.Date, tx.Ordinal)

	if tx.Kind == model.KindInterest {
		rep.AddIncome(report.IncomeRecord{
			Ordinal:  tx.Ordinal,
			Date:     tx.Date,
			Asset:    tx.OutputAsset,
			Quantity: tx.OutputAmount,
			Value:    tx.InputAmount,
		})
	}
	return nil
}

// processDisposal consumes the input asset FIFO and emits one disposal
// record. A swap additionally opens a lot for the crypto received, with
// the disposal proceeds as its cost basis.
func (e *Engine) processDisposal(book *ledger.Book, rep *report.Report, tx model.Transaction) error {
	proceeds, err := e.proceeds(tx)
	if err != nil {
		return err
	}

	consumed, costBasis, err := book.Ledger(tx.InputAsset).Consume(tx.InputAmount)
	if err != nil {
		return err
	}

	rep.AddDisposal(report.DisposalRecord{
		Ordinal:      tx.Ordinal,
		Date:         tx.Date,
		Kind:         tx.Kind,
		Asset:        tx.InputAsset,
		Quantity:     tx.InputAmount,
		Proceeds:     proceeds,
		CostBasis:    costBasis,
		Gain:         proceeds.Sub(costBasis),
		AcquiredFrom: consumed[0].AcquisitionDate,
		AcquiredTo:   consumed[len(consumed)-1].AcquisitionDate,
	})

	if e.classifier.IsCrypto(tx.OutputAsset) {
		unitCost := proceeds.Div(tx.OutputAmount)
		book.Ledger(tx.OutputAsset).Append(tx.OutputAmount, unitCost, tx.Date, tx.Ordinal)
	}
	return nil
}

// proceeds returns the fiat value received by a disposal: the output
// amount itself for fiat, or amount times the resolved price for crypto.
func (e *Engine) proceeds(tx model.Transaction) (decimal.Decimal, error) {
	if e.classifier.IsFiat(tx.OutputAsset) {
		return tx.OutputAmount, nil
	}
	price, err := e.valuer.Value(tx.OutputAsset, tx.Date)
	if err != nil {
		return decimal.Zero, err
	}
	return tx.OutputAmount.Mul(price), nil
}
