package services

import (
	"context"

	"github.com/shopspring/decimal"

	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

// CreateOrder stores an order for an existing user. The user row stays
// share-locked until commit so it cannot vanish under the new order.
func (s *ShopService) CreateOrder(ctx context.Context, userID uint64, totalAmount decimal.Decimal) (*domain.Order, error) {
	o := &domain.Order{
		UserID:      userID,
		TotalAmount: totalAmount,
		OrderDate:   s.now(),
	}
	err := s.atomic(ctx, "create order", func(tx repository.Tx) error {
		if err := o.Validate(); err != nil {
			return err
		}
		ok, err := tx.HasUser(userID)
		if err != nil {
			return err
		}
		if !ok {
			return missingReference(domain.KindUser, userID)
		}
		return tx.CreateOrder(o)
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, domain.ActionCreated, domain.KindOrder, o.ID, o)
	return o, nil
}

func (s *ShopService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	return lookup(ctx, s, domain.KindOrder, id, s.store.FindOrder)
}

func (s *ShopService) UpdateOrder(ctx context.Context, id uint64, patch domain.OrderPatch) (*domain.Order, error) {
	var (
		out     *domain.Order
		changed bool
	)
	err := s.atomic(ctx, "update order", func(tx repository.Tx) error {
		o, err := tx.LockOrder(id)
		if err != nil {
			return err
		}
		if o == nil {
			return notFound(domain.KindOrder, id)
		}
		if changed, err = patch.Apply(o, s.mode); err != nil {
			return err
		}
		out = o
		if !changed {
			return nil
		}
		return tx.SaveOrder(o)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.afterCommit(ctx, domain.ActionUpdated, domain.KindOrder, id, out)
	}
	return out, nil
}

func (s *ShopService) DeleteOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	var (
		snapshot *domain.Order
		removed  []domain.Ref
	)
	err := s.atomic(ctx, "delete order", func(tx repository.Tx) error {
		o, err := tx.LockOrder(id)
		if err != nil {
			return err
		}
		if o == nil {
			return notFound(domain.KindOrder, id)
		}
		if removed, err = s.clearDependents(tx, domain.KindOrder, id); err != nil {
			return err
		}
		snapshot = o
		return tx.DeleteOrder(id)
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, domain.ActionDeleted, domain.KindOrder, id, snapshot, removed...)
	return snapshot, nil
}
