package gormrepo

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

var _ repository.Tx = (*tx)(nil)

type tx struct {
	db *gorm.DB
}

func (t *tx) create(v any) error {
	res := t.db.Omit(clause.Associations).Create(v)
	if res.Error != nil {
		return domain.Persistence(errors.Wrapf(res.Error, "create %T", v))
	}
	return nil
}

func (t *tx) save(v any) error {
	if err := t.db.Omit(clause.Associations).Save(v).Error; err != nil {
		return domain.Persistence(errors.Wrapf(err, "save %T", v))
	}
	return nil
}

func (t *tx) delete(model any, id uint64) error {
	if err := t.db.Delete(model, id).Error; err != nil {
		return domain.Persistence(errors.Wrapf(err, "delete %T %d", model, id))
	}
	return nil
}

func (t *tx) CreateUser(u *domain.User) error {
	if err := t.create(u); err != nil {
		return err
	}
	if u.ID == 0 {
		return domain.Persistence(errors.New("failed to assign user id"))
	}
	return nil
}

func (t *tx) LockUser(id uint64) (*domain.User, error) {
	var u domain.User
	return lock(t.db, &u, id)
}

func (t *tx) SaveUser(u *domain.User) error { return t.save(u) }

func (t *tx) DeleteUser(id uint64) error { return t.delete(&domain.User{}, id) }

func (t *tx) HasUser(id uint64) (bool, error) {
	var u domain.User
	return exists(t.db, &u, id)
}

func (t *tx) CreateProduct(p *domain.Product) error {
	if err := t.create(p); err != nil {
		return err
	}
	if p.ID == 0 {
		return domain.Persistence(errors.New("failed to assign product id"))
	}
	return nil
}

func (t *tx) LockProduct(id uint64) (*domain.Product, error) {
	var p domain.Product
	return lock(t.db, &p, id)
}

func (t *tx) SaveProduct(p *domain.Product) error { return t.save(p) }

func (t *tx) DeleteProduct(id uint64) error { return t.delete(&domain.Product{}, id) }

func (t *tx) HasProduct(id uint64) (bool, error) {
	var p domain.Product
	return exists(t.db, &p, id)
}

func (t *tx) CreateOrder(o *domain.Order) error {
	if err := t.create(o); err != nil {
		return err
	}
	if o.ID == 0 {
		return domain.Persistence(errors.New("failed to assign order id"))
	}
	return nil
}

func (t *tx) LockOrder(id uint64) (*domain.Order, error) {
	var o domain.Order
	return lock(t.db, &o, id)
}

func (t *tx) SaveOrder(o *domain.Order) error { return t.save(o) }

func (t *tx) DeleteOrder(id uint64) error { return t.delete(&domain.Order{}, id) }

func (t *tx) HasOrder(id uint64) (bool, error) {
	var o domain.Order
	return exists(t.db, &o, id)
}

func (t *tx) CreateOrderItem(i *domain.OrderItem) error {
	if err := t.create(i); err != nil {
		return err
	}
	if i.ID == 0 {
		return domain.Persistence(errors.New("failed to assign order item id"))
	}
	return nil
}

func (t *tx) LockOrderItem(id uint64) (*domain.OrderItem, error) {
	var i domain.OrderItem
	return lock(t.db, &i, id)
}

func (t *tx) SaveOrderItem(i *domain.OrderItem) error { return t.save(i) }

func (t *tx) DeleteOrderItem(id uint64) error { return t.delete(&domain.OrderItem{}, id) }

func (t *tx) Dependents(kind domain.Kind, id uint64) (int64, error) {
	var q *gorm.DB
	switch kind {
	case domain.KindUser:
		q = t.db.Model(&domain.Order{}).Where("user_id = ?", id)
	case domain.KindOrder:
		q = t.db.Model(&domain.OrderItem{}).Where("order_id = ?", id)
	case domain.KindProduct:
		q = t.db.Model(&domain.OrderItem{}).Where("product_id = ?", id)
	default:
		return 0, nil
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, domain.Persistence(errors.Wrapf(err, "count dependents of %s %d", kind, id))
	}
	return n, nil
}

func (t *tx) DeleteDependents(kind domain.Kind, id uint64) ([]domain.Ref, error) {
	var refs []domain.Ref
	var orderIDs []uint64
	switch kind {
	case domain.KindUser:
		if err := t.db.Model(&domain.Order{}).Where("user_id = ?", id).Pluck("order_id", &orderIDs).Error; err != nil {
			return nil, domain.Persistence(errors.Wrapf(err, "list orders of user %d", id))
		}
	case domain.KindOrder:
		orderIDs = []uint64{id}
	}

	items := t.db.Model(&domain.OrderItem{})
	switch {
	case kind == domain.KindProduct:
		items = items.Where("product_id = ?", id)
	case len(orderIDs) > 0:
		items = items.Where("order_id IN ?", orderIDs)
	default:
		return nil, nil
	}
	var itemIDs []uint64
	if err := items.Pluck("orderitemid", &itemIDs).Error; err != nil {
		return nil, domain.Persistence(errors.Wrapf(err, "list dependents of %s %d", kind, id))
	}

	if len(itemIDs) > 0 {
		if err := t.db.Where("orderitemid IN ?", itemIDs).Delete(&domain.OrderItem{}).Error; err != nil {
			return nil, domain.Persistence(errors.Wrapf(err, "delete items of %s %d", kind, id))
		}
		for _, iid := range itemIDs {
			refs = append(refs, domain.Ref{Kind: domain.KindOrderItem, ID: iid})
		}
	}
	if kind == domain.KindUser && len(orderIDs) > 0 {
		if err := t.db.Where("order_id IN ?", orderIDs).Delete(&domain.Order{}).Error; err != nil {
			return nil, domain.Persistence(errors.Wrapf(err, "delete orders of user %d", id))
		}
		for _, oid := range orderIDs {
			refs = append(refs, domain.Ref{Kind: domain.KindOrder, ID: oid})
		}
	}
	return refs, nil
}
