package domain

import "fmt"

// OrderItem is addressed through its parent order: (OrderID, ID).
type OrderItem struct {
	ID        uint64 `json:"orderitem_id" gorm:"column:orderitemid;primaryKey;autoIncrement"`
	OrderID   uint64 `json:"order_id" gorm:"not null;index"`
	ProductID uint64 `json:"product_id" gorm:"not null;index"`
	Quantity  int    `json:"quantity" gorm:"not null"`

	Order   *Order   `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Product *Product `json:"-" gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) Validate() error {
	if i.OrderID == 0 {
		return fmt.Errorf("%w: order_id is required", ErrValidation)
	}
	if i.ProductID == 0 {
		return fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	return checkQuantity(i.Quantity)
}

// BelongsTo reports whether the item is addressed by orderID.
func (i *OrderItem) BelongsTo(orderID uint64) bool {
	return i.OrderID == orderID
}

type OrderItemPatch struct {
	Quantity Optional[int] `json:"quantity,omitzero"`
}

func (p OrderItemPatch) Apply(i *OrderItem, mode UpdateMode) (bool, error) {
	// a negative quantity is truthy, so it is never silently dropped
	if p.Quantity.Present && p.Quantity.Value < 0 {
		return false, checkQuantity(p.Quantity.Value)
	}
	if !mode.takes(p.Quantity.Present, p.Quantity.Value == 0) {
		return false, nil
	}
	if err := checkQuantity(p.Quantity.Value); err != nil {
		return false, err
	}
	changed := i.Quantity != p.Quantity.Value
	i.Quantity = p.Quantity.Value
	return changed, nil
}

func checkQuantity(q int) error {
	if q <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrConstraint)
	}
	return nil
}
