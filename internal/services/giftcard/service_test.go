package giftcard

import (
	"context"
	"testing"
	"time"

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
	require.NoError(t, store.Suppliers().Create(&models.Supplier{Name: "Amazon"}))
	return NewService(store, nil, zerolog.Nop()), store
}

func TestCreateGiftCard(t *testing.T) {
	svc, _ := newTestService(t)
	paid := 92.5

	card, err := svc.CreateGiftCard(context.Background(), CreateGiftCardInput{
		Code:         "AMZ-0001",
		InitialValue: 100,
		SupplierID:   1,
		CompanyID:    1,
		PaidValue:    &paid,
	})
	require.NoError(t, err)

	assert.NotZero(t, card.ID)
	assert.Equal(t, float64(100), card.CurrentBalance)
	assert.Equal(t, float64(100), card.PendingValue)
	assert.Equal(t, models.GiftCardStatusActive, card.Status)
	assert.InDelta(t, 7.5, card.DiscountPercent, 1e-9)
}

func TestCreateGiftCard_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateGiftCard(context.Background(), CreateGiftCardInput{
		InitialValue: 100,
		SupplierID:   1,
	})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.CreateGiftCard(context.Background(), CreateGiftCardInput{
		Code:       "AMZ-0001",
		SupplierID: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestCreateGiftCard_UnknownSupplier(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateGiftCard(context.Background(), CreateGiftCardInput{
		Code:         "AMZ-0001",
		InitialValue: 100,
		SupplierID:   99,
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGetGiftCard_ProjectsPendingValue(t *testing.T) {
	svc, store := newTestService(t)

	card, err := svc.CreateGiftCard(context.Background(), CreateGiftCardInput{
		Code:         "AMZ-0001",
		InitialValue: 100,
		SupplierID:   1,
	})
	require.NoError(t, err)

	for _, amount := range []float64{20, 30} {
		require.NoError(t, store.Transactions().Create(&models.Transaction{
			GiftCardID: card.ID,
			Amount:     amount,
			Status:     models.TransactionStatusCompleted,
		}))
	}
	// Pending and canceled entries never count.
	require.NoError(t, store.Transactions().Create(&models.Transaction{
		GiftCardID: card.ID,
		Amount:     500,
		Status:     models.TransactionStatusPending,
	}))

	got, err := svc.GetGiftCard(context.Background(), card.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(50), got.PendingValue)

	require.NoError(t, store.Transactions().Create(&models.Transaction{
		GiftCardID: card.ID,
		Amount:     60,
		Status:     models.TransactionStatusCompleted,
	}))

	got, err = svc.GetGiftCard(context.Background(), card.ID, 0)
	require.NoError(t, err)
	// 100 - 110 clamps at zero.
	assert.Equal(t, float64(0), got.PendingValue)
}

func TestGetGiftCard_TenantScoped(t *testing.T) {
	svc, _ := newTestService(t)

	card, err := svc.CreateGiftCard(context.Background(), CreateGiftCardInput{
		Code:         "AMZ-0001",
		InitialValue: 100,
		SupplierID:   1,
		CompanyID:    1,
	})
	require.NoError(t, err)

	_, err = svc.GetGiftCard(context.Background(), card.ID, 2)
	assert.ErrorIs(t, err, ErrGiftCardNotFound)

	got, err := svc.GetGiftCard(context.Background(), card.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)
}

func TestUpdateGiftCard_PatchMerge(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, CreateGiftCardInput{
		Code:         "AMZ-0001",
		InitialValue: 100,
		SupplierID:   1,
		Notes:        "presente",
	})
	require.NoError(t, err)

	code := "AMZ-0001-R"
	paid := 80.0
	updated, err := svc.UpdateGiftCard(ctx, card.ID, GiftCardPatch{
		Code:      &code,
		PaidValue: &paid,
	})
	require.NoError(t, err)

	assert.Equal(t, code, updated.Code)
	assert.Equal(t, "presente", updated.Notes)
	assert.InDelta(t, 20.0, updated.DiscountPercent, 1e-9)
	// Balance fields never move through a patch.
	assert.Equal(t, float64(100), updated.CurrentBalance)
}

func TestDeleteGiftCard_BlockedWhileReferenced(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, CreateGiftCardInput{
		Code:         "AMZ-0001",
		InitialValue: 100,
		SupplierID:   1,
	})
	require.NoError(t, err)

	tx := &models.Transaction{
		GiftCardID: card.ID,
		Amount:     10,
		Status:     models.TransactionStatusCompleted,
	}
	require.NoError(t, store.Transactions().Create(tx))

	assert.ErrorIs(t, svc.DeleteGiftCard(ctx, card.ID), ErrGiftCardInUse)

	require.NoError(t, store.Transactions().Delete(tx.ID))
	require.NoError(t, svc.DeleteGiftCard(ctx, card.ID))

	_, err = svc.GetGiftCard(ctx, card.ID, 0)
	assert.ErrorIs(t, err, ErrGiftCardNotFound)
}

func TestSearchGiftCards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seed := []CreateGiftCardInput{
		{Code: "AMZ-0001", InitialValue: 100, SupplierID: 1, UserID: 1, Notes: "presente de natal"},
		{Code: "IFD-0001", InitialValue: 50, SupplierID: 1, UserID: 1, OrderReference: "OC-778"},
		{Code: "AMZ-0002", InitialValue: 200, SupplierID: 1, UserID: 2},
	}
	for _, input := range seed {
		_, err := svc.CreateGiftCard(ctx, input)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		userID uint
		term   string
		want   []string
	}{
		{"by code, case-insensitive", 0, "amz", []string{"AMZ-0001", "AMZ-0002"}},
		{"by notes", 0, "natal", []string{"AMZ-0001"}},
		{"by order reference", 0, "oc-778", []string{"IFD-0001"}},
		{"scoped to user", 1, "amz", []string{"AMZ-0001"}},
		{"empty term returns all for user", 1, "", []string{"AMZ-0001", "IFD-0001"}},
		{"no match", 0, "xyz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := svc.SearchGiftCards(ctx, tt.userID, tt.term)
			require.NoError(t, err)
			codes := make([]string, 0, len(cards))
			for _, c := range cards {
				codes = append(codes, c.Code)
			}
			if tt.want == nil {
				assert.Empty(t, codes)
			} else {
				assert.Equal(t, tt.want, codes)
			}
		})
	}
}

func TestListExpiring(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 10)
	far := time.Now().AddDate(0, 6, 0)

	_, err := svc.CreateGiftCard(ctx, CreateGiftCardInput{
		Code: "SOON", InitialValue: 10, SupplierID: 1, ExpirationDate: &soon,
	})
	require.NoError(t, err)
	_, err = svc.CreateGiftCard(ctx, CreateGiftCardInput{
		Code: "FAR", InitialValue: 10, SupplierID: 1, ExpirationDate: &far,
	})
	require.NoError(t, err)
	_, err = svc.CreateGiftCard(ctx, CreateGiftCardInput{
		Code: "NEVER", InitialValue: 10, SupplierID: 1,
	})
	require.NoError(t, err)

	cards, err := svc.ListExpiring(ctx, 0, 30)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "SOON", cards[0].Code)
}

func TestListGiftCards_Filters(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.Suppliers().Create(&models.Supplier{Name: "iFood"}))

	a, err := svc.CreateGiftCard(ctx, CreateGiftCardInput{
		Code: "AMZ-0001", InitialValue: 100, SupplierID: 1, UserID: 1, CompanyID: 1,
	})
	require.NoError(t, err)
	_, err = svc.CreateGiftCard(ctx, CreateGiftCardInput{
		Code: "IFD-0001", InitialValue: 50, SupplierID: 2, UserID: 2, CompanyID: 1,
	})
	require.NoError(t, err)

	tag := &models.Tag{Name: "natal"}
	require.NoError(t, store.Tags().Create(tag))
	require.NoError(t, svc.AddTag(ctx, a.ID, tag.ID))

	cards, err := svc.ListGiftCards(ctx, ListFilter{SupplierID: 2})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "IFD-0001", cards[0].Code)

	cards, err = svc.ListGiftCards(ctx, ListFilter{TagID: tag.ID})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "AMZ-0001", cards[0].Code)

	cards, err = svc.ListGiftCards(ctx, ListFilter{CompanyID: 1})
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestAddRemoveTag(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, CreateGiftCardInput{
		Code: "AMZ-0001", InitialValue: 100, SupplierID: 1,
	})
	require.NoError(t, err)

	tag := &models.Tag{Name: "natal"}
	require.NoError(t, store.Tags().Create(tag))

	require.NoError(t, svc.AddTag(ctx, card.ID, tag.ID))
	// Idempotent: adding twice keeps a single link.
	require.NoError(t, svc.AddTag(ctx, card.ID, tag.ID))

	links, err := store.GiftCardTags().List(nil)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	assert.ErrorIs(t, svc.AddTag(ctx, card.ID, 99), ErrTagNotFound)
	assert.ErrorIs(t, svc.AddTag(ctx, 99, tag.ID), ErrGiftCardNotFound)

	require.NoError(t, svc.RemoveTag(ctx, card.ID, tag.ID))
	links, err = store.GiftCardTags().List(nil)
	require.NoError(t, err)
	assert.Empty(t, links)
}
