package repository

import (
	"context"

	"shop-service/internal/domain"
)

// Store is the entity store. Find* are plain reads and return (nil, nil)
// when the identity does not exist. Every write goes through Atomic.
type Store interface {
	// Atomic runs fn as one unit of work. A non-nil error from fn, a
	// cancelled ctx or a failed commit rolls back every write made by fn.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	FindUser(ctx context.Context, id uint64) (*domain.User, error)
	FindProduct(ctx context.Context, id uint64) (*domain.Product, error)
	FindOrder(ctx context.Context, id uint64) (*domain.Order, error)
	FindOrderItem(ctx context.Context, id uint64) (*domain.OrderItem, error)
}

// Tx is the write side of a unit of work. Lock* read a row under an
// exclusive lock held until the unit ends and return nil when absent.
// Has* take a shared lock on the referenced row so it cannot be removed
// before commit.
type Tx interface {
	CreateUser(u *domain.User) error
	LockUser(id uint64) (*domain.User, error)
	SaveUser(u *domain.User) error
	DeleteUser(id uint64) error
	HasUser(id uint64) (bool, error)

	CreateProduct(p *domain.Product) error
	LockProduct(id uint64) (*domain.Product, error)
	SaveProduct(p *domain.Product) error
	DeleteProduct(id uint64) error
	HasProduct(id uint64) (bool, error)

	CreateOrder(o *domain.Order) error
	LockOrder(id uint64) (*domain.Order, error)
	SaveOrder(o *domain.Order) error
	DeleteOrder(id uint64) error
	HasOrder(id uint64) (bool, error)

	CreateOrderItem(i *domain.OrderItem) error
	LockOrderItem(id uint64) (*domain.OrderItem, error)
	SaveOrderItem(i *domain.OrderItem) error
	DeleteOrderItem(id uint64) error

	// Dependents counts rows of other kinds that reference (kind, id).
	Dependents(kind domain.Kind, id uint64) (int64, error)
	// DeleteDependents removes, transitively, every row that references
	// (kind, id) and returns what it removed.
	DeleteDependents(kind domain.Kind, id uint64) ([]domain.Ref, error)
}
