package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusCanceled  = "canceled"
	TransactionStatusRefund    = "refund"
	TransactionStatusRefunded  = "refunded"
)

// ShareMap records the per-card amount breakdown of a transaction, keyed by
// gift card id. It is resolved once at debit time and reused verbatim on
// every credit path so debit and credit are exact inverses.
type ShareMap map[uint]float64

// Value implements the driver.Valuer interface
func (m ShareMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *ShareMap) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("sharemap: unsupported scan type")
	}
	return json.Unmarshal(bytes, m)
}

// Total returns the sum of all shares.
func (m ShareMap) Total() float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum
}

// Transaction represents one spend, refund or cancellation event against
// one or more gift cards.
type Transaction struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	GiftCardID      uint      `gorm:"index;not null" json:"giftCardId"`
	GiftCardIDs     string    `json:"giftCardIds"`
	CardShares      ShareMap  `gorm:"type:jsonb" json:"cardAmounts,omitempty"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"valor"`
	Description     string    `gorm:"not null" json:"descricao"`
	Status          string    `gorm:"index;default:'pending'" json:"status"`
	UserID          uint      `gorm:"index" json:"userId"`
	CompanyID       uint      `gorm:"index" json:"empresaId"`
	TransactionDate time.Time `gorm:"index" json:"dataTransacao"`
	Receipt         string    `json:"comprovante,omitempty"`
	CancelReason    string    `json:"motivoCancelamento,omitempty"`
	RefundDe        *uint     `gorm:"index" json:"refundDe,omitempty"`
	RefundAmount    *float64  `gorm:"type:decimal(15,2)" json:"valorRefund,omitempty"`
	RefundReason    string    `json:"motivoRefund,omitempty"`
	OrderReference  string    `json:"ordemCompra,omitempty"`
	InternalOrder   string    `json:"ordemInterna,omitempty"`
	ActorName       string    `json:"nomeUsuario,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (t *Transaction) GetID() uint   { return t.ID }
func (t *Transaction) SetID(id uint) { t.ID = id }
func (t *Transaction) Stamp(now time.Time, created bool) {
	if created {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// CardIDs returns the resolved target gift card set: the comma list when
// present, else the primary GiftCardID. Invalid entries are skipped.
func (t *Transaction) CardIDs() []uint {
	return ParseCardIDs(t.GiftCardIDs, t.GiftCardID)
}

// ParseCardIDs parses a comma-separated id list, falling back to the single
// primary id when the list is empty. Order is preserved, duplicates dropped.
func ParseCardIDs(list string, primary uint) []uint {
	var ids []uint
	seen := make(map[uint]bool)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var id uint
		for _, r := range part {
			if r < '0' || r > '9' {
				id = 0
				break
			}
			id = id*10 + uint(r-'0')
		}
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 && primary != 0 {
		ids = append(ids, primary)
	}
	return ids
}

// NormalizeTransactionStatus maps external status spellings, including the
// legacy accented Portuguese variants, to the canonical enum.
func NormalizeTransactionStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pendente", TransactionStatusPending:
		return TransactionStatusPending
	case "", "concluida", "concluída", "completa", TransactionStatusCompleted:
		return TransactionStatusCompleted
	case "cancelada", "cancelado", "cancelled", TransactionStatusCanceled:
		return TransactionStatusCanceled
	case "reembolso", TransactionStatusRefund:
		return TransactionStatusRefund
	case "reembolsada", "reembolsado", TransactionStatusRefunded:
		return TransactionStatusRefunded
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}
