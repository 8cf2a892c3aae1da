package giftcard

import (
	"context"
	"time"

	"cardvault/internal/models"
)

// CreateGiftCardInput is the validated payload for CreateGiftCard.
type CreateGiftCardInput struct {
	Code           string     `json:"codigo" validate:"required"`
	InitialValue   float64    `json:"valorInicial" validate:"required,gt=0"`
	SupplierID     uint       `json:"fornecedorId" validate:"required"`
	UserID         uint       `json:"userId"`
	CompanyID      uint       `json:"empresaId"`
	ExpirationDate *time.Time `json:"dataValidade,omitempty"`
	PaidValue      *float64   `json:"valorPago,omitempty" validate:"omitempty,gte=0"`
	OrderReference string     `json:"ordemCompra,omitempty"`
	Notes          string     `json:"observacoes,omitempty"`
	GCNumber       string     `json:"gcNumber,omitempty"`
	GCPass         string     `json:"gcPass,omitempty"`
}

// GiftCardPatch carries the fields of an update. Nil fields leave the
// stored value untouched. Balance and status are deliberately absent:
// they only change through the ledger.
type GiftCardPatch struct {
	Code           *string    `json:"codigo,omitempty"`
	ExpirationDate *time.Time `json:"dataValidade,omitempty"`
	PaidValue      *float64   `json:"valorPago,omitempty"`
	OrderReference *string    `json:"ordemCompra,omitempty"`
	Notes          *string    `json:"observacoes,omitempty"`
	GCNumber       *string    `json:"gcNumber,omitempty"`
	GCPass         *string    `json:"gcPass,omitempty"`
	SupplierID     *uint      `json:"fornecedorId,omitempty"`
}

// ListFilter scopes a gift card listing. Zero values mean "no filter".
type ListFilter struct {
	UserID     uint
	SupplierID uint
	CompanyID  uint
	TagID      uint
}

// Cache is the cache surface the gift card service needs.
type Cache interface {
	GetGiftCard(ctx context.Context, id uint) (*models.GiftCard, error)
	SetGiftCard(ctx context.Context, card *models.GiftCard) error
	InvalidateGiftCard(ctx context.Context, id uint) error
}

// Service manages gift cards and the read-side projection. Every card
// returned by Get/List/Search carries a freshly derived PendingValue.
type Service interface {
	CreateGiftCard(ctx context.Context, input CreateGiftCardInput) (*models.GiftCard, error)
	GetGiftCard(ctx context.Context, id, companyID uint) (*models.GiftCard, error)
	UpdateGiftCard(ctx context.Context, id uint, patch GiftCardPatch) (*models.GiftCard, error)
	DeleteGiftCard(ctx context.Context, id uint) error
	ListGiftCards(ctx context.Context, filter ListFilter) ([]*models.GiftCard, error)
	SearchGiftCards(ctx context.Context, userID uint, term string) ([]*models.GiftCard, error)
	ListExpiring(ctx context.Context, companyID uint, withinDays int) ([]*models.GiftCard, error)
	AddTag(ctx context.Context, giftCardID, tagID uint) error
	RemoveTag(ctx context.Context, giftCardID, tagID uint) error
}
