package models

import (
	"strings"
	"time"
)

// Gift card statuses
const (
	GiftCardStatusActive   = "active"
	GiftCardStatusDepleted = "depleted"
	GiftCardStatusExpired  = "expired"
	GiftCardStatusCanceled = "canceled"
)

// GiftCard represents one prepaid card purchased from a supplier.
//
// CurrentBalance is mutated exclusively by the ledger service and never
// goes below zero. PendingValue is derived on every read and never stored.
type GiftCard struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	Code            string     `gorm:"index;not null" json:"codigo"`
	InitialValue    float64    `gorm:"type:decimal(15,2);not null" json:"valorInicial"`
	CurrentBalance  float64    `gorm:"type:decimal(15,2);not null" json:"saldoAtual"`
	PendingValue    float64    `gorm:"-" json:"valorPendente"`
	Status          string     `gorm:"index;default:'active'" json:"status"`
	ExpirationDate  *time.Time `gorm:"index" json:"dataValidade,omitempty"`
	UserID          uint       `gorm:"index" json:"userId"`
	CompanyID       uint       `gorm:"index" json:"empresaId"`
	SupplierID      uint       `gorm:"index;not null" json:"fornecedorId"`
	PaidValue       *float64   `gorm:"type:decimal(15,2)" json:"valorPago,omitempty"`
	DiscountPercent float64    `gorm:"type:decimal(5,2);default:0" json:"percentualDesconto"`
	OrderReference  string     `json:"ordemCompra,omitempty"`
	Notes           string     `json:"observacoes,omitempty"`
	GCNumber        string     `json:"gcNumber,omitempty"`
	GCPass          string     `json:"gcPass,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (g *GiftCard) GetID() uint   { return g.ID }
func (g *GiftCard) SetID(id uint) { g.ID = id }
func (g *GiftCard) Stamp(now time.Time, created bool) {
	if created {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
}

// MaskAccess blanks the supplier access credentials. Applied before a card
// leaves the API for callers without the reveal permission.
func (g *GiftCard) MaskAccess() {
	g.GCNumber = ""
	g.GCPass = ""
}

// DiscountFromPaid derives the discount percentage from the paid value when
// one was recorded. Returns the stored percentage otherwise.
func (g *GiftCard) DiscountFromPaid() float64 {
	if g.PaidValue == nil || g.InitialValue <= 0 {
		return g.DiscountPercent
	}
	return (g.InitialValue - *g.PaidValue) / g.InitialValue * 100
}

// NormalizeGiftCardStatus maps external status spellings, including the
// legacy Portuguese variants, to the canonical enum. Unknown values are
// lower-cased and passed through.
func NormalizeGiftCardStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ativo", "ativa", GiftCardStatusActive:
		return GiftCardStatusActive
	case "zerado", "zerada", "depleted", "zeroed":
		return GiftCardStatusDepleted
	case "expirado", "expirada", "vencido", GiftCardStatusExpired:
		return GiftCardStatusExpired
	case "cancelado", "cancelada", "cancelled", GiftCardStatusCanceled:
		return GiftCardStatusCanceled
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}
