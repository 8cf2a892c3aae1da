// Package postgres implements repositories.Store on GORM + PostgreSQL.
// It is the durable backend, selected by configuration; semantics match
// the memory store.
package postgres

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cardvault/internal/models"
	"cardvault/internal/repositories"
)

type repo[T any] struct {
	db *gorm.DB
}

func (r repo[T]) Create(row *T) error {
	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r repo[T]) GetByID(id uint) (*T, error) {
	var row T
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &row, nil
}

func (r repo[T]) Update(row *T) error {
	result := r.db.Save(row)
	if result.Error != nil {
		return fmt.Errorf("failed to update record: %w", result.Error)
	}
	return nil
}

func (r repo[T]) Delete(id uint) error {
	var row T
	result := r.db.Delete(&row, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r repo[T]) List(filter func(*T) bool) ([]*T, error) {
	var rows []*T
	if err := r.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if filter == nil {
		return rows, nil
	}
	out := rows[:0]
	for _, row := range rows {
		if filter(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Store is the GORM-backed repositories.Store implementation.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open GORM handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres with the given DSN and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	err = db.AutoMigrate(
		&models.Company{},
		&models.Profile{},
		&models.User{},
		&models.Supplier{},
		&models.GiftCard{},
		&models.Transaction{},
		&models.Tag{},
		&models.GiftCardTag{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return NewStore(db), nil
}

func (s *Store) Companies() repositories.Repository[models.Company] {
	return repo[models.Company]{db: s.db}
}

func (s *Store) Profiles() repositories.Repository[models.Profile] {
	return repo[models.Profile]{db: s.db}
}

func (s *Store) Users() repositories.Repository[models.User] {
	return repo[models.User]{db: s.db}
}

func (s *Store) Suppliers() repositories.Repository[models.Supplier] {
	return repo[models.Supplier]{db: s.db}
}

func (s *Store) GiftCards() repositories.Repository[models.GiftCard] {
	return repo[models.GiftCard]{db: s.db}
}

func (s *Store) Transactions() repositories.Repository[models.Transaction] {
	return repo[models.Transaction]{db: s.db}
}

func (s *Store) Tags() repositories.Repository[models.Tag] {
	return repo[models.Tag]{db: s.db}
}

func (s *Store) GiftCardTags() repositories.Repository[models.GiftCardTag] {
	return repo[models.GiftCardTag]{db: s.db}
}

// ExecuteInTransaction runs fn inside a database transaction.
func (s *Store) ExecuteInTransaction(fn func(repositories.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
