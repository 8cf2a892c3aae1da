// Package memory implements repositories.Store with mutex-guarded maps.
// It is the reference backend: ids are assigned monotonically per entity
// type, rows are stored by value so callers never alias store state, and
// ExecuteInTransaction serializes whole operations behind one lock.
package memory

import (
	"sort"
	"sync"
	"time"

	"cardvault/internal/models"
	"cardvault/internal/repositories"
)

type table[T any, PT interface {
	*T
	models.Entity
}] struct {
	mu     sync.RWMutex
	rows   map[uint]T
	nextID uint
}

func newTable[T any, PT interface {
	*T
	models.Entity
}]() *table[T, PT] {
	return &table[T, PT]{rows: make(map[uint]T)}
}

func (t *table[T, PT]) Create(row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	PT(row).SetID(t.nextID)
	PT(row).Stamp(time.Now(), true)
	t.rows[t.nextID] = *row
	return nil
}

func (t *table[T, PT]) GetByID(id uint) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &row, nil
}

func (t *table[T, PT]) Update(row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := PT(row).GetID()
	if _, ok := t.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	PT(row).Stamp(time.Now(), false)
	t.rows[id] = *row
	return nil
}

func (t *table[T, PT]) Delete(id uint) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T, PT]) List(filter func(*T) bool) ([]*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*T, 0)
	for id := range t.rows {
		row := t.rows[id]
		if filter == nil || filter(&row) {
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return PT(out[i]).GetID() < PT(out[j]).GetID()
	})
	return out, nil
}

// Store is the in-memory repositories.Store implementation.
type Store struct {
	opMu sync.Mutex

	companies    *table[models.Company, *models.Company]
	profiles     *table[models.Profile, *models.Profile]
	users        *table[models.User, *models.User]
	suppliers    *table[models.Supplier, *models.Supplier]
	giftCards    *table[models.GiftCard, *models.GiftCard]
	transactions *table[models.Transaction, *models.Transaction]
	tags         *table[models.Tag, *models.Tag]
	giftCardTags *table[models.GiftCardTag, *models.GiftCardTag]
}

// NewStore returns an empty in-memory store. Tests construct a fresh one
// per case for isolation.
func NewStore() *Store {
	return &Store{
		companies:    newTable[models.Company, *models.Company](),
		profiles:     newTable[models.Profile, *models.Profile](),
		users:        newTable[models.User, *models.User](),
		suppliers:    newTable[models.Supplier, *models.Supplier](),
		giftCards:    newTable[models.GiftCard, *models.GiftCard](),
		transactions: newTable[models.Transaction, *models.Transaction](),
		tags:         newTable[models.Tag, *models.Tag](),
		giftCardTags: newTable[models.GiftCardTag, *models.GiftCardTag](),
	}
}

func (s *Store) Companies() repositories.Repository[models.Company]   { return s.companies }
func (s *Store) Profiles() repositories.Repository[models.Profile]    { return s.profiles }
func (s *Store) Users() repositories.Repository[models.User]          { return s.users }
func (s *Store) Suppliers() repositories.Repository[models.Supplier]  { return s.suppliers }
func (s *Store) GiftCards() repositories.Repository[models.GiftCard]  { return s.giftCards }
func (s *Store) Transactions() repositories.Repository[models.Transaction] {
	return s.transactions
}
func (s *Store) Tags() repositories.Repository[models.Tag] { return s.tags }
func (s *Store) GiftCardTags() repositories.Repository[models.GiftCardTag] {
	return s.giftCardTags
}

// ExecuteInTransaction serializes fn against every other transactional
// operation on this store. The memory backend does not roll back on error;
// callers apply their effects only after all reads have resolved.
func (s *Store) ExecuteInTransaction(fn func(repositories.Store) error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return fn(s)
}
