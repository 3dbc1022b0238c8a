package services

import (
	"context"
	"errors"
	"fmt"

	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

// itemNotFound is returned both for a missing item and for an item reached
// through an order that is not its parent.
func itemNotFound(orderID, itemID uint64) error {
	return fmt.Errorf("order item %d of order %d: %w", itemID, orderID, domain.ErrNotFound)
}

// CreateOrderItem adds a line to an existing order. Both the order and the
// product must exist when the unit commits.
func (s *ShopService) CreateOrderItem(ctx context.Context, orderID, productID uint64, quantity int) (*domain.OrderItem, error) {
	item := &domain.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	}
	err := s.atomic(ctx, "create order item", func(tx repository.Tx) error {
		if err := item.Validate(); err != nil {
			return err
		}
		ok, err := tx.HasOrder(orderID)
		if err != nil {
			return err
		}
		if !ok {
			return missingReference(domain.KindOrder, orderID)
		}
		if ok, err = tx.HasProduct(productID); err != nil {
			return err
		}
		if !ok {
			return missingReference(domain.KindProduct, productID)
		}
		return tx.CreateOrderItem(item)
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, domain.ActionCreated, domain.KindOrderItem, item.ID, item)
	return item, nil
}

func (s *ShopService) GetOrderItem(ctx context.Context, orderID, itemID uint64) (*domain.OrderItem, error) {
	item, err := lookup(ctx, s, domain.KindOrderItem, itemID, s.store.FindOrderItem)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, itemNotFound(orderID, itemID)
	}
	if err != nil {
		return nil, err
	}
	if !item.BelongsTo(orderID) {
		return nil, itemNotFound(orderID, itemID)
	}
	return item, nil
}

func (s *ShopService) UpdateOrderItem(ctx context.Context, orderID, itemID uint64, patch domain.OrderItemPatch) (*domain.OrderItem, error) {
	var (
		out     *domain.OrderItem
		changed bool
	)
	err := s.atomic(ctx, "update order item", func(tx repository.Tx) error {
		item, err := tx.LockOrderItem(itemID)
		if err != nil {
			return err
		}
		if item == nil || !item.BelongsTo(orderID) {
			return itemNotFound(orderID, itemID)
		}
		if changed, err = patch.Apply(item, s.mode); err != nil {
			return err
		}
		out = item
		if !changed {
			return nil
		}
		return tx.SaveOrderItem(item)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.afterCommit(ctx, domain.ActionUpdated, domain.KindOrderItem, itemID, out)
	}
	return out, nil
}

func (s *ShopService) DeleteOrderItem(ctx context.Context, orderID, itemID uint64) (*domain.OrderItem, error) {
	var snapshot *domain.OrderItem
	err := s.atomic(ctx, "delete order item", func(tx repository.Tx) error {
		item, err := tx.LockOrderItem(itemID)
		if err != nil {
			return err
		}
		if item == nil || !item.BelongsTo(orderID) {
			return itemNotFound(orderID, itemID)
		}
		snapshot = item
		return tx.DeleteOrderItem(itemID)
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, domain.ActionDeleted, domain.KindOrderItem, itemID, snapshot)
	return snapshot, nil
}
