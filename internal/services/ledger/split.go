package ledger

import (
	"math"

	"cardvault/internal/models"
)

// splitTolerance is the slack allowed between an explicit per-card
// breakdown and the transaction total before the mismatch is flagged.
const splitTolerance = 0.005

// resolveShares computes the per-card amount breakdown for a transaction.
// An explicit breakdown wins; otherwise the amount is divided evenly
// across all targets. The result is persisted with the transaction so the
// credit paths reverse exactly what the debit path applied.
func resolveShares(targets []uint, explicit map[uint]float64, amount float64) (models.ShareMap, bool) {
	shares := make(models.ShareMap, len(targets))

	if len(explicit) > 0 {
		for _, id := range targets {
			shares[id] = explicit[id]
		}
		mismatch := math.Abs(shares.Total()-amount) > splitTolerance
		return shares, mismatch
	}

	each := amount / float64(len(targets))
	for _, id := range targets {
		shares[id] = each
	}
	return shares, false
}

// storedShares returns the breakdown persisted on a transaction, falling
// back to an even split for records written before shares were stored.
func storedShares(tx *models.Transaction) models.ShareMap {
	if len(tx.CardShares) > 0 {
		return tx.CardShares
	}
	targets := tx.CardIDs()
	if len(targets) == 0 {
		return models.ShareMap{}
	}
	shares, _ := resolveShares(targets, nil, tx.Amount)
	return shares
}
