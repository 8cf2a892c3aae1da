package giftcard

import "errors"

// Service errors
var (
	ErrGiftCardNotFound = errors.New("gift card not found")
	ErrGiftCardInUse    = errors.New("gift card has transactions and cannot be deleted")
	ErrTagNotFound      = errors.New("tag not found")
	ErrInvalidValue     = errors.New("invalid gift card value")
)
