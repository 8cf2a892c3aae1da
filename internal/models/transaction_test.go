package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTransactionStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", TransactionStatusCompleted},
		{"concluída", TransactionStatusCompleted},
		{"Concluida", TransactionStatusCompleted},
		{"completa", TransactionStatusCompleted},
		{"completed", TransactionStatusCompleted},
		{"pendente", TransactionStatusPending},
		{"pending", TransactionStatusPending},
		{"cancelada", TransactionStatusCanceled},
		{"Cancelado", TransactionStatusCanceled},
		{"cancelled", TransactionStatusCanceled},
		{"reembolso", TransactionStatusRefund},
		{"reembolsada", TransactionStatusRefunded},
		{"  completed  ", TransactionStatusCompleted},
		{"whatever", "whatever"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTransactionStatus(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeGiftCardStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", GiftCardStatusActive},
		{"ativo", GiftCardStatusActive},
		{"Ativa", GiftCardStatusActive},
		{"zerado", GiftCardStatusDepleted},
		{"zeroed", GiftCardStatusDepleted},
		{"expirado", GiftCardStatusExpired},
		{"vencido", GiftCardStatusExpired},
		{"cancelada", GiftCardStatusCanceled},
		{"UNKNOWN", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeGiftCardStatus(tt.in), "input %q", tt.in)
	}
}

func TestParseCardIDs(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		primary uint
		want    []uint
	}{
		{"comma list", "1,2,3", 0, []uint{1, 2, 3}},
		{"whitespace tolerated", " 1 , 2 ", 0, []uint{1, 2}},
		{"duplicates dropped", "1,2,1", 0, []uint{1, 2}},
		{"garbage skipped", "1,abc,3", 0, []uint{1, 3}},
		{"empty list falls back to primary", "", 5, []uint{5}},
		{"list wins over primary", "7", 5, []uint{7}},
		{"nothing resolvable", "", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCardIDs(tt.list, tt.primary))
		})
	}
}

func TestShareMapTotal(t *testing.T) {
	assert.Equal(t, float64(0), ShareMap(nil).Total())
	assert.Equal(t, float64(60), ShareMap{1: 40, 2: 20}.Total())
}

func TestCardIDs(t *testing.T) {
	tx := Transaction{GiftCardID: 1, GiftCardIDs: "1,2"}
	assert.Equal(t, []uint{1, 2}, tx.CardIDs())

	single := Transaction{GiftCardID: 9}
	assert.Equal(t, []uint{9}, single.CardIDs())
}
