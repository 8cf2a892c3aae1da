package ledger

import (
	"context"
	"time"

	"cardvault/internal/models"
)

// CreateTransactionInput is the validated payload for CreateTransaction.
// Either GiftCardID or a comma-separated GiftCardIDs list must resolve to
// at least one target card. Status defaults to completed, the transaction
// date to now.
type CreateTransactionInput struct {
	GiftCardID      uint             `json:"giftCardId"`
	GiftCardIDs     string           `json:"giftCardIds"`
	CardAmounts     map[uint]float64 `json:"cardAmounts,omitempty"`
	Amount          float64          `json:"valor" validate:"required,gt=0"`
	Description     string           `json:"descricao" validate:"required"`
	Status          string           `json:"status"`
	UserID          uint             `json:"userId"`
	CompanyID       uint             `json:"empresaId"`
	TransactionDate *time.Time       `json:"dataTransacao,omitempty"`
	Receipt         string           `json:"comprovante,omitempty"`
	RefundDe        *uint            `json:"refundDe,omitempty"`
	RefundAmount    *float64         `json:"valorRefund,omitempty"`
	RefundReason    string           `json:"motivoRefund,omitempty"`
	OrderReference  string           `json:"ordemCompra,omitempty"`
	InternalOrder   string           `json:"ordemInterna,omitempty"`
	ActorName       string           `json:"nomeUsuario,omitempty"`
}

// TransactionPatch carries the fields of an update. Nil fields leave the
// stored value untouched.
type TransactionPatch struct {
	Status         *string  `json:"status,omitempty"`
	Amount         *float64 `json:"valor,omitempty" validate:"omitempty,gt=0"`
	Description    *string  `json:"descricao,omitempty"`
	Receipt        *string  `json:"comprovante,omitempty"`
	CancelReason   *string  `json:"motivoCancelamento,omitempty"`
	RefundAmount   *float64 `json:"valorRefund,omitempty"`
	RefundReason   *string  `json:"motivoRefund,omitempty"`
	OrderReference *string  `json:"ordemCompra,omitempty"`
	InternalOrder  *string  `json:"ordemInterna,omitempty"`
	ActorName      *string  `json:"nomeUsuario,omitempty"`
}

// CardCache is the cache surface the ledger needs: dropping entries for
// cards whose balance it changed.
type CardCache interface {
	InvalidateGiftCard(ctx context.Context, id uint) error
}

// Service is the transaction ledger. Every balance mutation in the system
// goes through it.
type Service interface {
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id uint, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id uint) (bool, error)
	GetTransaction(ctx context.Context, id uint) (*models.Transaction, error)
	ListByGiftCard(ctx context.Context, giftCardID, companyID uint) ([]*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Transaction, error)
	ListByCompany(ctx context.Context, companyID uint) ([]*models.Transaction, error)
}
