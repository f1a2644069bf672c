package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fifotax/fifotax/internal/model"
)

// ValidateStream checks every transaction of the merged stream before
// matching starts: per-row kind rules plus a running per-asset balance so
// an overdraw is reported against the transaction that causes it. The
// final per-asset balances are returned for diagnostics.
func ValidateStream(txs []model.Transaction, c *model.Classifier) (map[model.Asset]decimal.Decimal, error) {
	state := make(map[model.Asset]decimal.Decimal)

	for _, tx := range txs {
		if err := model.Validate(tx, c); err != nil {
			return nil, err
		}

		if c.IsCrypto(tx.InputAsset) {
			balance := state[tx.InputAsset].Sub(tx.InputAmount)
			if balance.IsNegative() {
				return nil, model.ValidationError{
					Ordinal: tx.Ordinal,
					Source:  tx.Source,
					Reason: fmt.Sprintf("balance of %s would go negative (%s)",
						tx.InputAsset, balance),
				}
			}
			state[tx.InputAsset] = balance
		}
		if c.IsCrypto(tx.OutputAsset) {
			state[tx.OutputAsset] = state[tx.OutputAsset].Add(tx.OutputAmount)
		}
	}

	return state, nil
}

// AssetSet returns the distinct asset symbols appearing in the stream.
// Logged after parsing as a sanity check for the user.
func AssetSet(txs []model.Transaction) []model.Asset {
	seen := make(map[model.Asset]bool)
	var out []model.Asset
	for _, tx := range txs {
		for _, a := range []model.Asset{tx.InputAsset, tx.OutputAsset} {
			if a != "" && !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}
