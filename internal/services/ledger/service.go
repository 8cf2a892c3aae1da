// Package ledger implements the transaction ledger: creating, updating
// and deleting spend/refund transactions and applying their balance
// effects to the affected gift cards.
//
// A transaction's status decides whether it affects balances. The only
// transitions with a balance effect are pending→completed (debit) and
// completed→canceled (credit); every other transition is balance-neutral,
// so repeating a transition never double-debits or double-credits.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cardvault/internal/models"
	"cardvault/internal/repositories"
)

// balanceEpsilon absorbs float drift when deciding a card is depleted.
const balanceEpsilon = 1e-9

type noopCache struct{}

func (noopCache) InvalidateGiftCard(ctx context.Context, id uint) error { return nil }

type service struct {
	store    repositories.Store
	cache    CardCache
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewService creates the ledger service. The cache is optional.
func NewService(store repositories.Store, cache CardCache, logger zerolog.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &service{
		store:    store,
		cache:    cache,
		validate: validator.New(),
		logger:   logger.With().Str("component", "ledger").Logger(),
	}
}

func (s *service) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error) {
	input.Status = models.NormalizeTransactionStatus(input.Status)

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingRequiredField, err)
	}

	targets := models.ParseCardIDs(input.GiftCardIDs, input.GiftCardID)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one gift card id", ErrMissingRequiredField)
	}

	shares, mismatch := resolveShares(targets, input.CardAmounts, input.Amount)
	if mismatch {
		// The explicit breakdown disagreeing with the total is advisory:
		// the caller confirmed the amounts, so the ledger proceeds with
		// the breakdown as given.
		s.logger.Warn().
			Float64("amount", input.Amount).
			Float64("shareTotal", shares.Total()).
			Msg("per-card breakdown does not sum to the transaction amount")
	}

	txDate := time.Now()
	if input.TransactionDate != nil {
		txDate = *input.TransactionDate
	}
	receipt := input.Receipt
	if receipt == "" {
		receipt = uuid.NewString()
	}

	tx := &models.Transaction{
		GiftCardID:      targets[0],
		GiftCardIDs:     joinCardIDs(targets),
		CardShares:      shares,
		Amount:          input.Amount,
		Description:     input.Description,
		Status:          input.Status,
		UserID:          input.UserID,
		CompanyID:       input.CompanyID,
		TransactionDate: txDate,
		Receipt:         receipt,
		RefundDe:        input.RefundDe,
		RefundAmount:    input.RefundAmount,
		RefundReason:    input.RefundReason,
		OrderReference:  input.OrderReference,
		InternalOrder:   input.InternalOrder,
		ActorName:       input.ActorName,
	}

	touched := append([]uint(nil), targets...)

	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		// Resolve the refund source before any balance mutation: the
		// memory store does not roll back, so a missing source must fail
		// the operation while the ledger is still untouched.
		var refundSource *models.Transaction
		if input.RefundDe != nil {
			orig, err := st.Transactions().GetByID(*input.RefundDe)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("%w: refund source %d", ErrTransactionNotFound, *input.RefundDe)
				}
				return err
			}
			refundSource = orig
		}

		if tx.Status == models.TransactionStatusCompleted {
			if err := s.applyDebit(st, shares); err != nil {
				return err
			}
		}

		if refundSource != nil {
			restored, err := s.applyRefund(st, refundSource)
			if err != nil {
				return err
			}
			touched = append(touched, restored...)
		}

		return st.Transactions().Create(tx)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCards(ctx, touched)
	return tx, nil
}

func (s *service) UpdateTransaction(ctx context.Context, id uint, patch TransactionPatch) (*models.Transaction, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if patch.Status != nil {
		normalized := models.NormalizeTransactionStatus(*patch.Status)
		patch.Status = &normalized
	}

	var tx *models.Transaction
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		existing, err := st.Transactions().GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		oldStatus := existing.Status
		models.ApplyPatch(existing, &patch)

		if patch.Status != nil {
			switch {
			case existing.Status == models.TransactionStatusCompleted && oldStatus != models.TransactionStatusCompleted:
				shares := storedShares(existing)
				if patch.Amount != nil && math.Abs(shares.Total()-existing.Amount) > splitTolerance {
					// The amount changed with this patch; the breakdown
					// resolved at create time no longer sums to it.
					shares, _ = resolveShares(existing.CardIDs(), nil, existing.Amount)
				}
				if err := s.applyDebit(st, shares); err != nil {
					return err
				}
				existing.CardShares = shares
			case existing.Status == models.TransactionStatusCanceled && oldStatus == models.TransactionStatusCompleted:
				if err := s.applyCredit(st, storedShares(existing)); err != nil {
					return err
				}
			}
		}

		if err := st.Transactions().Update(existing); err != nil {
			return err
		}
		tx = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCards(ctx, tx.CardIDs())
	return tx, nil
}

func (s *service) DeleteTransaction(ctx context.Context, id uint) (bool, error) {
	existed := false
	var touched []uint

	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		tx, err := st.Transactions().GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			return err
		}
		existed = true
		touched = tx.CardIDs()

		if tx.Status == models.TransactionStatusCompleted {
			if err := s.applyCredit(st, storedShares(tx)); err != nil {
				return err
			}
		}
		return st.Transactions().Delete(id)
	})
	if err != nil {
		return false, err
	}

	s.invalidateCards(ctx, touched)
	return existed, nil
}

func (s *service) GetTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, err := s.store.Transactions().GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *service) ListByGiftCard(ctx context.Context, giftCardID, companyID uint) ([]*models.Transaction, error) {
	return s.store.Transactions().List(func(t *models.Transaction) bool {
		if companyID != 0 && t.CompanyID != companyID {
			return false
		}
		for _, id := range t.CardIDs() {
			if id == giftCardID {
				return true
			}
		}
		return false
	})
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]*models.Transaction, error) {
	return s.store.Transactions().List(func(t *models.Transaction) bool {
		return t.UserID == userID
	})
}

func (s *service) ListByCompany(ctx context.Context, companyID uint) ([]*models.Transaction, error) {
	return s.store.Transactions().List(func(t *models.Transaction) bool {
		return companyID == 0 || t.CompanyID == companyID
	})
}

// applyDebit subtracts each card's share from its balance, clamped at
// zero. Cards missing from the store are logged and skipped; the rest of
// the operation proceeds.
func (s *service) applyDebit(st repositories.Store, shares models.ShareMap) error {
	for id, share := range shares {
		card, err := st.GiftCards().GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				s.logger.Warn().Uint("giftCardId", id).Msg("debit skipped, gift card no longer exists")
				continue
			}
			return err
		}

		card.CurrentBalance = math.Max(0, card.CurrentBalance-share)
		if card.CurrentBalance <= balanceEpsilon {
			card.CurrentBalance = 0
			card.Status = models.GiftCardStatusDepleted
		} else {
			card.Status = models.GiftCardStatusActive
		}
		if err := st.GiftCards().Update(card); err != nil {
			return err
		}
	}
	return nil
}

// applyCredit restores each card's share onto its balance, the exact
// inverse of applyDebit.
func (s *service) applyCredit(st repositories.Store, shares models.ShareMap) error {
	for id, share := range shares {
		card, err := st.GiftCards().GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				s.logger.Warn().Uint("giftCardId", id).Msg("credit skipped, gift card no longer exists")
				continue
			}
			return err
		}

		card.CurrentBalance += share
		if card.CurrentBalance > balanceEpsilon {
			card.Status = models.GiftCardStatusActive
		}
		if err := st.GiftCards().Update(card); err != nil {
			return err
		}
	}
	return nil
}

// applyRefund marks the original transaction refunded and restores its
// stored per-card shares. Returns the card ids whose balance changed.
func (s *service) applyRefund(st repositories.Store, orig *models.Transaction) ([]uint, error) {
	if orig.Status == models.TransactionStatusRefunded {
		// Already refunded; restoring again would double-credit.
		return nil, nil
	}

	if err := s.applyCredit(st, storedShares(orig)); err != nil {
		return nil, err
	}

	orig.Status = models.TransactionStatusRefunded
	if err := st.Transactions().Update(orig); err != nil {
		return nil, err
	}
	return orig.CardIDs(), nil
}

func (s *service) invalidateCards(ctx context.Context, ids []uint) {
	for _, id := range ids {
		if err := s.cache.InvalidateGiftCard(ctx, id); err != nil {
			s.logger.Warn().Uint("giftCardId", id).Err(err).Msg("failed to invalidate gift card cache")
		}
	}
}

func joinCardIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}
