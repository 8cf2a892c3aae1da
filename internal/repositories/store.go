// Package repositories defines the storage contracts for the application.
// Implementations live in the memory and postgres subpackages; the cache
// subpackage provides the Redis-backed gift card cache.
package repositories

import (
	"errors"

	"cardvault/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Repository is the per-entity store contract: create assigns the next id
// and timestamps, update requires an existing id, list filters by
// predicate (nil matches everything).
type Repository[T any] interface {
	Create(row *T) error
	GetByID(id uint) (*T, error)
	Update(row *T) error
	Delete(id uint) error
	List(filter func(*T) bool) ([]*T, error)
}

// Store aggregates the entity repositories. ExecuteInTransaction runs fn
// as a single critical section: the memory store serializes it behind a
// store-wide lock, the postgres store wraps it in a database transaction.
// Ledger operations that read and write balances must go through it.
type Store interface {
	Companies() Repository[models.Company]
	Profiles() Repository[models.Profile]
	Users() Repository[models.User]
	Suppliers() Repository[models.Supplier]
	GiftCards() Repository[models.GiftCard]
	Transactions() Repository[models.Transaction]
	Tags() Repository[models.Tag]
	GiftCardTags() Repository[models.GiftCardTag]

	ExecuteInTransaction(fn func(Store) error) error
}
