// Package memory is an in-process repository.Store. A unit of work runs
// against a private copy of the tables and replaces them only on success,
// so an aborted unit leaves nothing behind. Units are serialized.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/pkg/errors"

	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

type tables struct {
	users    map[uint64]domain.User
	products map[uint64]domain.Product
	orders   map[uint64]domain.Order
	items    map[uint64]domain.OrderItem

	// last identity handed out per kind; never rewound
	seq map[domain.Kind]uint64
}

func newTables() *tables {
	return &tables{
		users:    map[uint64]domain.User{},
		products: map[uint64]domain.Product{},
		orders:   map[uint64]domain.Order{},
		items:    map[uint64]domain.OrderItem{},
		seq:      map[domain.Kind]uint64{},
	}
}

func (t *tables) clone() *tables {
	return &tables{
		users:    maps.Clone(t.users),
		products: maps.Clone(t.products),
		orders:   maps.Clone(t.orders),
		items:    maps.Clone(t.items),
		seq:      maps.Clone(t.seq),
	}
}

func (t *tables) next(kind domain.Kind) uint64 {
	t.seq[kind]++
	return t.seq[kind]
}

type Store struct {
	mu   sync.RWMutex
	data *tables
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: newTables()}
}

func (s *Store) Atomic(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Persistence(errors.Wrap(err, "begin"))
	}
	work := s.data.clone()
	if err := fn(&tx{t: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.Persistence(errors.Wrap(err, "commit"))
	}
	s.data = work
	return nil
}

func (s *Store) FindUser(_ context.Context, id uint64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.data.users, id), nil
}

func (s *Store) FindProduct(_ context.Context, id uint64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.data.products, id), nil
}

func (s *Store) FindOrder(_ context.Context, id uint64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.data.orders, id), nil
}

func (s *Store) FindOrderItem(_ context.Context, id uint64) (*domain.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.data.items, id), nil
}

// lookup returns a copy so callers never alias stored rows.
func lookup[T any](m map[uint64]T, id uint64) *T {
	v, ok := m[id]
	if !ok {
		return nil
	}
	return &v
}
