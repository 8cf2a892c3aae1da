package ledger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardvault/internal/models"
	"cardvault/internal/repositories"
	"cardvault/internal/repositories/memory"
)

func newTestService(t *testing.T) (Service, repositories.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store, nil, zerolog.Nop()), store
}

func seedCard(t *testing.T, store repositories.Store, code string, value float64) *models.GiftCard {
	t.Helper()
	card := &models.GiftCard{
		Code:           code,
		InitialValue:   value,
		CurrentBalance: value,
		Status:         models.GiftCardStatusActive,
		SupplierID:     1,
		CompanyID:      1,
		UserID:         1,
	}
	require.NoError(t, store.GiftCards().Create(card))
	return card
}

func cardBalance(t *testing.T, store repositories.Store, id uint) float64 {
	t.Helper()
	card, err := store.GiftCards().GetByID(id)
	require.NoError(t, err)
	return card.CurrentBalance
}

func cardStatus(t *testing.T, store repositories.Store, id uint) string {
	t.Helper()
	card, err := store.GiftCards().GetByID(id)
	require.NoError(t, err)
	return card.Status
}

func TestCreateTransaction_Validation(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	tests := []struct {
		name  string
		input CreateTransactionInput
	}{
		{
			name:  "missing amount",
			input: CreateTransactionInput{GiftCardID: card.ID, Description: "compra"},
		},
		{
			name:  "negative amount",
			input: CreateTransactionInput{GiftCardID: card.ID, Description: "compra", Amount: -5},
		},
		{
			name:  "missing description",
			input: CreateTransactionInput{GiftCardID: card.ID, Amount: 10},
		},
		{
			name:  "no target cards",
			input: CreateTransactionInput{Amount: 10, Description: "compra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrMissingRequiredField)
		})
	}

	// Nothing was created, nothing was debited.
	assert.Equal(t, float64(100), cardBalance(t, store, card.ID))
	txs, err := store.Transactions().List(nil)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestCreateTransaction_CompletedDebitsBalance(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	tx, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      40,
		Description: "compra",
		Status:      "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.NotEmpty(t, tx.Receipt)
	assert.False(t, tx.TransactionDate.IsZero())
	assert.Equal(t, float64(60), cardBalance(t, store, card.ID))
	assert.Equal(t, models.GiftCardStatusActive, cardStatus(t, store, card.ID))

	second, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      60,
		Description: "compra final",
		Status:      "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), cardBalance(t, store, card.ID))
	assert.Equal(t, models.GiftCardStatusDepleted, cardStatus(t, store, card.ID))

	// Deleting the second transaction restores its exact debit.
	existed, err := svc.DeleteTransaction(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, float64(60), cardBalance(t, store, card.ID))
	assert.Equal(t, models.GiftCardStatusActive, cardStatus(t, store, card.ID))
}

func TestCreateTransaction_PendingHasNoBalanceEffect(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	_, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      40,
		Description: "compra pendente",
		Status:      "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(100), cardBalance(t, store, card.ID))
}

func TestCreateTransaction_NormalizesLegacyStatus(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	tx, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      25,
		Description: "compra",
		Status:      "Concluída",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.Equal(t, float64(75), cardBalance(t, store, card.ID))
}

func TestCreateTransaction_EvenSplit(t *testing.T) {
	svc, store := newTestService(t)
	a := seedCard(t, store, "GC-A", 100)
	b := seedCard(t, store, "GC-B", 100)
	c := seedCard(t, store, "GC-C", 100)

	tx, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardIDs: "1,2,3",
		Amount:      90,
		Description: "compra dividida",
		Status:      "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, "1,2,3", tx.GiftCardIDs)
	assert.Equal(t, a.ID, tx.GiftCardID)

	for _, id := range []uint{a.ID, b.ID, c.ID} {
		assert.Equal(t, float64(70), cardBalance(t, store, id))
	}

	// Deleting credits exactly 30 back to each.
	existed, err := svc.DeleteTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	for _, id := range []uint{a.ID, b.ID, c.ID} {
		assert.Equal(t, float64(100), cardBalance(t, store, id))
	}
}

func TestCreateTransaction_ExplicitBreakdown(t *testing.T) {
	svc, store := newTestService(t)
	a := seedCard(t, store, "GC-A", 100)
	b := seedCard(t, store, "GC-B", 100)

	tx, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardIDs: "1,2",
		CardAmounts: map[uint]float64{a.ID: 50, b.ID: 10},
		Amount:      60,
		Description: "compra com divisão explícita",
		Status:      "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(50), cardBalance(t, store, a.ID))
	assert.Equal(t, float64(90), cardBalance(t, store, b.ID))
	assert.Equal(t, float64(50), tx.CardShares[a.ID])
	assert.Equal(t, float64(10), tx.CardShares[b.ID])
}

func TestCreateTransaction_BreakdownMismatchProceeds(t *testing.T) {
	svc, store := newTestService(t)
	a := seedCard(t, store, "GC-A", 100)
	b := seedCard(t, store, "GC-B", 100)

	// Breakdown sums to 30 but the total says 50: advisory only, the
	// breakdown wins.
	_, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardIDs: "1,2",
		CardAmounts: map[uint]float64{a.ID: 10, b.ID: 20},
		Amount:      50,
		Description: "divisão inconsistente",
		Status:      "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(90), cardBalance(t, store, a.ID))
	assert.Equal(t, float64(80), cardBalance(t, store, b.ID))
}

func TestCreateTransaction_ClampsAtZero(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 10)

	_, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      50,
		Description: "compra acima do saldo",
		Status:      "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), cardBalance(t, store, card.ID))
	assert.Equal(t, models.GiftCardStatusDepleted, cardStatus(t, store, card.ID))
}

func TestCreateTransaction_OrphanedCardSkipped(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	_, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardIDs: "1,999",
		Amount:      40,
		Description: "compra com cartão removido",
		Status:      "completed",
	})
	require.NoError(t, err)
	// The surviving card takes its share; the missing one is skipped.
	assert.Equal(t, float64(80), cardBalance(t, store, card.ID))
}

func TestCreateTransaction_RefundRestoresOriginal(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	original, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      30,
		Description: "compra",
		Status:      "completed",
	})
	require.NoError(t, err)
	require.Equal(t, float64(70), cardBalance(t, store, card.ID))

	refund, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      30,
		Description: "estorno da compra",
		Status:      "refund",
		RefundDe:    &original.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRefund, refund.Status)

	restored, err := store.Transactions().GetByID(original.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRefunded, restored.Status)
	assert.Equal(t, float64(100), cardBalance(t, store, card.ID))
	assert.Equal(t, models.GiftCardStatusActive, cardStatus(t, store, card.ID))
}

func TestCreateTransaction_RefundUnknownOriginal(t *testing.T) {
	missing := uint(42)

	tests := []struct {
		name   string
		status string
	}{
		{"refund status", "refund"},
		{"completed status", "completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			card := seedCard(t, store, "GC-1", 100)

			_, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
				GiftCardID:  card.ID,
				Amount:      30,
				Description: "estorno órfão",
				Status:      tt.status,
				RefundDe:    &missing,
			})
			assert.ErrorIs(t, err, ErrTransactionNotFound)

			// The failed operation left no trace: no debit, no record.
			assert.Equal(t, float64(100), cardBalance(t, store, card.ID))
			txs, err := store.Transactions().List(nil)
			require.NoError(t, err)
			assert.Empty(t, txs)
		})
	}
}

func TestUpdateTransaction_StatusTransitions(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	tx, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      40,
		Description: "compra",
		Status:      "pending",
	})
	require.NoError(t, err)
	require.Equal(t, float64(100), cardBalance(t, store, card.ID))

	completed := models.TransactionStatusCompleted

	// pending -> completed debits once.
	_, err = svc.UpdateTransaction(context.Background(), tx.ID, TransactionPatch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, float64(60), cardBalance(t, store, card.ID))

	// completed -> completed is idempotent.
	_, err = svc.UpdateTransaction(context.Background(), tx.ID, TransactionPatch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, float64(60), cardBalance(t, store, card.ID))

	// completed -> canceled credits back.
	canceled := models.TransactionStatusCanceled
	reason := "pedido cancelado"
	updated, err := svc.UpdateTransaction(context.Background(), tx.ID, TransactionPatch{
		Status:       &canceled,
		CancelReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCanceled, updated.Status)
	assert.Equal(t, reason, updated.CancelReason)
	assert.Equal(t, float64(100), cardBalance(t, store, card.ID))

	// canceled -> canceled stays balance-neutral.
	_, err = svc.UpdateTransaction(context.Background(), tx.ID, TransactionPatch{Status: &canceled})
	require.NoError(t, err)
	assert.Equal(t, float64(100), cardBalance(t, store, card.ID))
}

func TestUpdateTransaction_AmountPatchedAtCompletion(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	tx, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      40,
		Description: "compra",
		Status:      "pending",
	})
	require.NoError(t, err)

	// Completing with a corrected amount debits the new value, not the
	// breakdown resolved at create time.
	completed := models.TransactionStatusCompleted
	amount := 50.0
	updated, err := svc.UpdateTransaction(context.Background(), tx.ID, TransactionPatch{
		Status: &completed,
		Amount: &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(50), updated.Amount)
	assert.Equal(t, float64(50), cardBalance(t, store, card.ID))

	// Deleting reverses exactly what was debited.
	existed, err := svc.DeleteTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, float64(100), cardBalance(t, store, card.ID))
}

func TestUpdateTransaction_MergeIgnoresAbsentFields(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)

	tx, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		GiftCardID:  card.ID,
		Amount:      40,
		Description: "compra original",
		Status:      "completed",
	})
	require.NoError(t, err)

	desc := "descrição corrigida"
	updated, err := svc.UpdateTransaction(context.Background(), tx.ID, TransactionPatch{Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, tx.Amount, updated.Amount)
	assert.Equal(t, tx.Status, updated.Status)
	assert.Equal(t, tx.Receipt, updated.Receipt)
	// No balance effect from a non-status patch.
	assert.Equal(t, float64(60), cardBalance(t, store, card.ID))
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	desc := "qualquer"
	_, err := svc.UpdateTransaction(context.Background(), 99, TransactionPatch{Description: &desc})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestDeleteTransaction_Missing(t *testing.T) {
	svc, _ := newTestService(t)
	existed, err := svc.DeleteTransaction(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestConservation(t *testing.T) {
	svc, store := newTestService(t)
	card := seedCard(t, store, "GC-1", 100)
	ctx := context.Background()

	for _, amount := range []float64{15, 25, 10} {
		_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			GiftCardID:  card.ID,
			Amount:      amount,
			Description: "compra",
			Status:      "completed",
		})
		require.NoError(t, err)
	}

	txs, err := store.Transactions().List(func(tx *models.Transaction) bool {
		return tx.GiftCardID == card.ID && tx.Status == models.TransactionStatusCompleted
	})
	require.NoError(t, err)

	var spent float64
	for _, tx := range txs {
		spent += tx.Amount
	}
	assert.InDelta(t, card.InitialValue, cardBalance(t, store, card.ID)+spent, 1e-9)
}

func TestListByGiftCard(t *testing.T) {
	svc, store := newTestService(t)
	a := seedCard(t, store, "GC-A", 100)
	b := seedCard(t, store, "GC-B", 100)
	ctx := context.Background()

	_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		GiftCardID: a.ID, Amount: 10, Description: "compra a", CompanyID: 1,
	})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, CreateTransactionInput{
		GiftCardIDs: "1,2", Amount: 20, Description: "compra dividida", CompanyID: 1,
	})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, CreateTransactionInput{
		GiftCardID: b.ID, Amount: 5, Description: "compra b", CompanyID: 2,
	})
	require.NoError(t, err)

	txs, err := svc.ListByGiftCard(ctx, a.ID, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	// Multi-card transactions show up for secondary cards too.
	txs, err = svc.ListByGiftCard(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	txs, err = svc.ListByGiftCard(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}
