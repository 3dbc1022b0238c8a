package services

import (
	"context"

	"github.com/shopspring/decimal"

	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

func (s *ShopService) CreateProduct(ctx context.Context, name string, description *string, price decimal.Decimal) (*domain.Product, error) {
	p := &domain.Product{
		Name:        name,
		Description: description,
		Price:       price,
		CreatedAt:   s.now(),
	}
	err := s.atomic(ctx, "create product", func(tx repository.Tx) error {
		if err := p.Validate(); err != nil {
			return err
		}
		return tx.CreateProduct(p)
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, domain.ActionCreated, domain.KindProduct, p.ID, p)
	return p, nil
}

func (s *ShopService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	return lookup(ctx, s, domain.KindProduct, id, s.store.FindProduct)
}

func (s *ShopService) UpdateProduct(ctx context.Context, id uint64, patch domain.ProductPatch) (*domain.Product, error) {
	var (
		out     *domain.Product
		changed bool
	)
	err := s.atomic(ctx, "update product", func(tx repository.Tx) error {
		p, err := tx.LockProduct(id)
		if err != nil {
			return err
		}
		if p == nil {
			return notFound(domain.KindProduct, id)
		}
		if changed, err = patch.Apply(p, s.mode); err != nil {
			return err
		}
		out = p
		if !changed {
			return nil
		}
		return tx.SaveProduct(p)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.afterCommit(ctx, domain.ActionUpdated, domain.KindProduct, id, out)
	}
	return out, nil
}

func (s *ShopService) DeleteProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	var (
		snapshot *domain.Product
		removed  []domain.Ref
	)
	err := s.atomic(ctx, "delete product", func(tx repository.Tx) error {
		p, err := tx.LockProduct(id)
		if err != nil {
			return err
		}
		if p == nil {
			return notFound(domain.KindProduct, id)
		}
		if removed, err = s.clearDependents(tx, domain.KindProduct, id); err != nil {
			return err
		}
		snapshot = p
		return tx.DeleteProduct(id)
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, domain.ActionDeleted, domain.KindProduct, id, snapshot, removed...)
	return snapshot, nil
}
