package giftcard

import "cardvault/internal/models"

// PendingValue derives the remaining spendable value of a card from its
// completed transaction history:
//
//	max(0, initialValue - Σ amount of completed transactions on the card)
//
// It is pure and never persisted; callers recompute it on every read. A
// zero or negative initial value yields zero.
func PendingValue(card *models.GiftCard, transactions []*models.Transaction) float64 {
	if card.InitialValue <= 0 {
		return 0
	}

	var spent float64
	for _, tx := range transactions {
		if tx.GiftCardID == card.ID && tx.Status == models.TransactionStatusCompleted {
			spent += tx.Amount
		}
	}

	pending := card.InitialValue - spent
	if pending < 0 {
		return 0
	}
	return pending
}
