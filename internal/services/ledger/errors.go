package ledger

import "errors"

// Service errors
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidAmount        = errors.New("invalid transaction amount")
	ErrTransactionNotFound  = errors.New("transaction not found")
)
