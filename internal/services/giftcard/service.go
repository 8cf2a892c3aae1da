// Package giftcard manages gift cards: creation, patch updates, tag
// links, and the query layer (list, search, expiration window). All reads
// pass through the balance projector so PendingValue is never stale.
package giftcard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"cardvault/internal/models"
	"cardvault/internal/repositories"
)

type noopCache struct{}

func (noopCache) GetGiftCard(ctx context.Context, id uint) (*models.GiftCard, error) {
	return nil, repositories.ErrNotFound
}
func (noopCache) SetGiftCard(ctx context.Context, card *models.GiftCard) error { return nil }
func (noopCache) InvalidateGiftCard(ctx context.Context, id uint) error        { return nil }

type service struct {
	store    repositories.Store
	cache    Cache
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewService creates the gift card service. The cache is optional.
func NewService(store repositories.Store, cache Cache, logger zerolog.Logger) Service {
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
		logger:   logger.With().Str("component", "giftcard").Logger(),
	}
}

func (s *service) CreateGiftCard(ctx context.Context, input CreateGiftCardInput) (*models.GiftCard, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	if _, err := s.store.Suppliers().GetByID(input.SupplierID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("supplier %d: %w", input.SupplierID, repositories.ErrNotFound)
		}
		return nil, err
	}

	card := &models.GiftCard{
		Code:           input.Code,
		InitialValue:   input.InitialValue,
		CurrentBalance: input.InitialValue,
		Status:         models.GiftCardStatusActive,
		ExpirationDate: input.ExpirationDate,
		UserID:         input.UserID,
		CompanyID:      input.CompanyID,
		SupplierID:     input.SupplierID,
		PaidValue:      input.PaidValue,
		OrderReference: input.OrderReference,
		Notes:          input.Notes,
		GCNumber:       input.GCNumber,
		GCPass:         input.GCPass,
	}
	card.DiscountPercent = card.DiscountFromPaid()

	if err := s.store.GiftCards().Create(card); err != nil {
		return nil, err
	}

	card.PendingValue = card.InitialValue
	return card, nil
}

func (s *service) GetGiftCard(ctx context.Context, id, companyID uint) (*models.GiftCard, error) {
	if cached, err := s.cache.GetGiftCard(ctx, id); err == nil {
		if companyID != 0 && cached.CompanyID != companyID {
			return nil, ErrGiftCardNotFound
		}
		return cached, nil
	}

	card, err := s.store.GiftCards().GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGiftCardNotFound
		}
		return nil, err
	}
	if companyID != 0 && card.CompanyID != companyID {
		return nil, ErrGiftCardNotFound
	}

	if err := s.project(card); err != nil {
		return nil, err
	}

	if err := s.cache.SetGiftCard(ctx, card); err != nil {
		s.logger.Warn().Uint("giftCardId", id).Err(err).Msg("failed to cache gift card")
	}
	return card, nil
}

func (s *service) UpdateGiftCard(ctx context.Context, id uint, patch GiftCardPatch) (*models.GiftCard, error) {
	card, err := s.store.GiftCards().GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGiftCardNotFound
		}
		return nil, err
	}

	if patch.SupplierID != nil {
		if _, err := s.store.Suppliers().GetByID(*patch.SupplierID); err != nil {
			return nil, fmt.Errorf("supplier %d: %w", *patch.SupplierID, repositories.ErrNotFound)
		}
	}

	models.ApplyPatch(card, &patch)
	if patch.PaidValue != nil {
		card.DiscountPercent = card.DiscountFromPaid()
	}

	if err := s.store.GiftCards().Update(card); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateGiftCard(ctx, id); err != nil {
		s.logger.Warn().Uint("giftCardId", id).Err(err).Msg("failed to invalidate gift card cache")
	}

	if err := s.project(card); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteGiftCard removes a card. Deletion is blocked while transactions
// reference the card; removing the card would orphan its ledger history.
func (s *service) DeleteGiftCard(ctx context.Context, id uint) error {
	if _, err := s.store.GiftCards().GetByID(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrGiftCardNotFound
		}
		return err
	}

	refs, err := s.store.Transactions().List(func(t *models.Transaction) bool {
		for _, cardID := range t.CardIDs() {
			if cardID == id {
				return true
			}
		}
		return false
	})
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return ErrGiftCardInUse
	}

	links, err := s.store.GiftCardTags().List(func(l *models.GiftCardTag) bool {
		return l.GiftCardID == id
	})
	if err != nil {
		return err
	}
	for _, link := range links {
		if err := s.store.GiftCardTags().Delete(link.ID); err != nil {
			return err
		}
	}

	if err := s.store.GiftCards().Delete(id); err != nil {
		return err
	}
	if err := s.cache.InvalidateGiftCard(ctx, id); err != nil {
		s.logger.Warn().Uint("giftCardId", id).Err(err).Msg("failed to invalidate gift card cache")
	}
	return nil
}

func (s *service) ListGiftCards(ctx context.Context, filter ListFilter) ([]*models.GiftCard, error) {
	var tagged map[uint]bool
	if filter.TagID != 0 {
		links, err := s.store.GiftCardTags().List(func(l *models.GiftCardTag) bool {
			return l.TagID == filter.TagID
		})
		if err != nil {
			return nil, err
		}
		tagged = make(map[uint]bool, len(links))
		for _, link := range links {
			tagged[link.GiftCardID] = true
		}
	}

	cards, err := s.store.GiftCards().List(func(g *models.GiftCard) bool {
		if filter.UserID != 0 && g.UserID != filter.UserID {
			return false
		}
		if filter.SupplierID != 0 && g.SupplierID != filter.SupplierID {
			return false
		}
		if filter.CompanyID != 0 && g.CompanyID != filter.CompanyID {
			return false
		}
		if tagged != nil && !tagged[g.ID] {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return cards, s.projectAll(cards)
}

func (s *service) SearchGiftCards(ctx context.Context, userID uint, term string) ([]*models.GiftCard, error) {
	term = strings.ToLower(strings.TrimSpace(term))

	cards, err := s.store.GiftCards().List(func(g *models.GiftCard) bool {
		if userID != 0 && g.UserID != userID {
			return false
		}
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(g.Code), term) ||
			strings.Contains(strings.ToLower(g.Notes), term) ||
			strings.Contains(strings.ToLower(g.OrderReference), term)
	})
	if err != nil {
		return nil, err
	}
	return cards, s.projectAll(cards)
}

func (s *service) ListExpiring(ctx context.Context, companyID uint, withinDays int) ([]*models.GiftCard, error) {
	cutoff := time.Now().AddDate(0, 0, withinDays)

	cards, err := s.store.GiftCards().List(func(g *models.GiftCard) bool {
		if companyID != 0 && g.CompanyID != companyID {
			return false
		}
		return g.ExpirationDate != nil && !g.ExpirationDate.After(cutoff)
	})
	if err != nil {
		return nil, err
	}
	return cards, s.projectAll(cards)
}

func (s *service) AddTag(ctx context.Context, giftCardID, tagID uint) error {
	if _, err := s.store.GiftCards().GetByID(giftCardID); err != nil {
		return ErrGiftCardNotFound
	}
	if _, err := s.store.Tags().GetByID(tagID); err != nil {
		return ErrTagNotFound
	}

	existing, err := s.store.GiftCardTags().List(func(l *models.GiftCardTag) bool {
		return l.GiftCardID == giftCardID && l.TagID == tagID
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return s.store.GiftCardTags().Create(&models.GiftCardTag{GiftCardID: giftCardID, TagID: tagID})
}

func (s *service) RemoveTag(ctx context.Context, giftCardID, tagID uint) error {
	links, err := s.store.GiftCardTags().List(func(l *models.GiftCardTag) bool {
		return l.GiftCardID == giftCardID && l.TagID == tagID
	})
	if err != nil {
		return err
	}
	for _, link := range links {
		if err := s.store.GiftCardTags().Delete(link.ID); err != nil {
			return err
		}
	}
	return nil
}

// project derives PendingValue for one card from its completed
// transactions.
func (s *service) project(card *models.GiftCard) error {
	txs, err := s.store.Transactions().List(func(t *models.Transaction) bool {
		return t.GiftCardID == card.ID && t.Status == models.TransactionStatusCompleted
	})
	if err != nil {
		return err
	}
	card.PendingValue = PendingValue(card, txs)
	return nil
}

func (s *service) projectAll(cards []*models.GiftCard) error {
	for _, card := range cards {
		if err := s.project(card); err != nil {
			return err
		}
	}
	return nil
}
