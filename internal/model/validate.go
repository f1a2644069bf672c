package model

import "fmt"

// ValidationError describes a single malformed transaction.
// One bad transaction aborts the whole run.
type ValidationError struct {
	Ordinal int
	Source  string
	Reason  string
}

func (e ValidationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid transaction %d: %s", e.Ordinal, e.Reason)
	}
	return fmt.Sprintf("invalid transaction %d (%s): %s", e.Ordinal, e.Source, e.Reason)
}

func (t Transaction) fail(reason string) error {
	return ValidationError{Ordinal: t.Ordinal, Source: t.Source, Reason: reason}
}

// Validate checks the kind-specific directionality and amount rules.
// It is pure: no state is consulted beyond the static classification.
func Validate(t Transaction, c *Classifier) error {
	if t.Date.IsZero() {
		return t.fail("missing date")
	}
	if t.InputAmount.IsNegative() || t.OutputAmount.IsNegative() {
		return t.fail("negative amount")
	}
	if t.InputAsset == t.OutputAsset {
		return t.fail("input and output asset are the same")
	}

	switch t.Kind {
	case KindBuying, KindInvoice, KindInterest:
		if !c.IsFiat(t.InputAsset) {
			return t.fail(string(t.Kind) + " must have a fiat input, got " + t.InputAsset.String())
		}
		if t.InputAmount.IsZero() {
			return t.fail(string(t.Kind) + " must have a non-zero fiat input amount")
		}
		if !c.IsCrypto(t.OutputAsset) {
			return t.fail(string(t.Kind) + " must have a crypto output, got " + t.OutputAsset.String())
		}
		if t.OutputAmount.IsZero() {
			return t.fail(string(t.Kind) + " must have a non-zero output amount")
		}
	case KindSwap:
		if !c.IsCrypto(t.InputAsset) {
			return t.fail("Swap must have a crypto input, got " + t.InputAsset.String())
		}
		if t.InputAmount.IsZero() {
			return t.fail("Swap must have a non-zero input amount")
		}
		if !c.IsCrypto(t.OutputAsset) {
			return t.fail("Swap must have a crypto output, got " + t.OutputAsset.String())
		}
		if t.OutputAmount.IsZero() {
			return t.fail("Swap must have a non-zero output amount")
		}
	case KindSelling:
		if !c.IsCrypto(t.InputAsset) {
			return t.fail("Selling must have a crypto input, got " + t.InputAsset.String())
		}
		if t.InputAmount.IsZero() {
			return t.fail("Selling must have a non-zero input amount")
		}
		// Zero fiat output is allowed: it models a pure loss or fee write-off.
		if !c.IsFiat(t.OutputAsset) {
			return t.fail("Selling must have a fiat output, got " + t.OutputAsset.String())
		}
	default:
		return t.fail("unknown kind " + string(t.Kind))
	}
	return nil
}
