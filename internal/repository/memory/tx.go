package memory

import (
	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

var _ repository.Tx = (*tx)(nil)

type tx struct {
	t *tables
}

func (x *tx) CreateUser(u *domain.User) error {
	u.ID = x.t.next(domain.KindUser)
	x.t.users[u.ID] = *u
	return nil
}

func (x *tx) LockUser(id uint64) (*domain.User, error) { return lookup(x.t.users, id), nil }

func (x *tx) SaveUser(u *domain.User) error {
	x.t.users[u.ID] = *u
	return nil
}

func (x *tx) DeleteUser(id uint64) error {
	delete(x.t.users, id)
	return nil
}

func (x *tx) HasUser(id uint64) (bool, error) {
	_, ok := x.t.users[id]
	return ok, nil
}

func (x *tx) CreateProduct(p *domain.Product) error {
	p.ID = x.t.next(domain.KindProduct)
	x.t.products[p.ID] = *p
	return nil
}

func (x *tx) LockProduct(id uint64) (*domain.Product, error) { return lookup(x.t.products, id), nil }

func (x *tx) SaveProduct(p *domain.Product) error {
	x.t.products[p.ID] = *p
	return nil
}

func (x *tx) DeleteProduct(id uint64) error {
	delete(x.t.products, id)
	return nil
}

func (x *tx) HasProduct(id uint64) (bool, error) {
	_, ok := x.t.products[id]
	return ok, nil
}

func (x *tx) CreateOrder(o *domain.Order) error {
	o.ID = x.t.next(domain.KindOrder)
	x.t.orders[o.ID] = *o
	return nil
}

func (x *tx) LockOrder(id uint64) (*domain.Order, error) { return lookup(x.t.orders, id), nil }

func (x *tx) SaveOrder(o *domain.Order) error {
	x.t.orders[o.ID] = *o
	return nil
}

func (x *tx) DeleteOrder(id uint64) error {
	delete(x.t.orders, id)
	return nil
}

func (x *tx) HasOrder(id uint64) (bool, error) {
	_, ok := x.t.orders[id]
	return ok, nil
}

func (x *tx) CreateOrderItem(i *domain.OrderItem) error {
	i.ID = x.t.next(domain.KindOrderItem)
	x.t.items[i.ID] = *i
	return nil
}

func (x *tx) LockOrderItem(id uint64) (*domain.OrderItem, error) { return lookup(x.t.items, id), nil }

func (x *tx) SaveOrderItem(i *domain.OrderItem) error {
	x.t.items[i.ID] = *i
	return nil
}

func (x *tx) DeleteOrderItem(id uint64) error {
	delete(x.t.items, id)
	return nil
}

func (x *tx) Dependents(kind domain.Kind, id uint64) (int64, error) {
	var n int64
	switch kind {
	case domain.KindUser:
		for _, o := range x.t.orders {
			if o.UserID == id {
				n++
			}
		}
	case domain.KindOrder, domain.KindProduct:
		for _, i := range x.t.items {
			if references(i, kind, id) {
				n++
			}
		}
	}
	return n, nil
}

func (x *tx) DeleteDependents(kind domain.Kind, id uint64) ([]domain.Ref, error) {
	var refs []domain.Ref
	switch kind {
	case domain.KindUser:
		for oid, o := range x.t.orders {
			if o.UserID != id {
				continue
			}
			sub, err := x.DeleteDependents(domain.KindOrder, oid)
			if err != nil {
				return nil, err
			}
			refs = append(refs, sub...)
			delete(x.t.orders, oid)
			refs = append(refs, domain.Ref{Kind: domain.KindOrder, ID: oid})
		}
	case domain.KindOrder, domain.KindProduct:
		for iid, i := range x.t.items {
			if references(i, kind, id) {
				delete(x.t.items, iid)
				refs = append(refs, domain.Ref{Kind: domain.KindOrderItem, ID: iid})
			}
		}
	}
	return refs, nil
}

func references(i domain.OrderItem, kind domain.Kind, id uint64) bool {
	if kind == domain.KindOrder {
		return i.OrderID == id
	}
	return i.ProductID == id
}
