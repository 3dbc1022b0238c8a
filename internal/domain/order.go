package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order belongs to a User. The owner never changes after creation.
type Order struct {
	ID          uint64          `json:"order_id" gorm:"column:order_id;primaryKey;autoIncrement"`
	UserID      uint64          `json:"user_id" gorm:"not null;index"`
	OrderDate   time.Time       `json:"order_date" gorm:"autoCreateTime"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);not null"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) Validate() error {
	if o.UserID == 0 {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	return checkMoney("total_amount", o.TotalAmount)
}

type OrderPatch struct {
	TotalAmount Optional[decimal.Decimal] `json:"total_amount,omitzero"`
}

func (p OrderPatch) Apply(o *Order, mode UpdateMode) (bool, error) {
	if !mode.takes(p.TotalAmount.Present, p.TotalAmount.Value.IsZero()) {
		return false, nil
	}
	if err := checkMoney("total_amount", p.TotalAmount.Value); err != nil {
		return false, err
	}
	changed := !o.TotalAmount.Equal(p.TotalAmount.Value)
	o.TotalAmount = p.TotalAmount.Value
	return changed, nil
}
