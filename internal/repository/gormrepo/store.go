package gormrepo

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

type store struct {
	db *gorm.DB
}

// NewStore returns a repository.Store backed by a relational database.
// Row locks use SELECT ... FOR UPDATE / FOR SHARE on dialects that have them.
func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Atomic(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return domain.Persistence(errors.Wrap(err, "begin"))
	}
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if fnErr = fn(&tx{db: db}); fnErr != nil {
			return fnErr
		}
		// a caller that gave up must not see a commit
		return ctx.Err()
	})
	if fnErr != nil {
		// tx methods tag their own backend failures
		return fnErr
	}
	if err != nil {
		zap.L().Error("transaction failed", zap.Error(err))
		return domain.Persistence(errors.Wrap(err, "commit"))
	}
	return nil
}

func (s *store) FindUser(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	return find(s.db.WithContext(ctx), &u, id)
}

func (s *store) FindProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	return find(s.db.WithContext(ctx), &p, id)
}

func (s *store) FindOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	return find(s.db.WithContext(ctx), &o, id)
}

func (s *store) FindOrderItem(ctx context.Context, id uint64) (*domain.OrderItem, error) {
	var i domain.OrderItem
	return find(s.db.WithContext(ctx), &i, id)
}

func find[T any](db *gorm.DB, dst *T, id uint64) (*T, error) {
	if err := db.First(dst, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domain.Persistence(errors.Wrapf(err, "find %T %d", dst, id))
	}
	return dst, nil
}

func lock[T any](db *gorm.DB, dst *T, id uint64) (*T, error) {
	return find(db.Clauses(clause.Locking{Strength: "UPDATE"}), dst, id)
}

func exists[T any](db *gorm.DB, model *T, id uint64) (bool, error) {
	found, err := find(db.Clauses(clause.Locking{Strength: "SHARE"}), model, id)
	return found != nil, err
}
